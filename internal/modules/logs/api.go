package logs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/reusedev/koi/config"
	"github.com/rs/zerolog"
)

var (
	Logger zerolog.Logger
)

// InitLogger replaces Logger with one built from config.GConfig.
func InitLogger() {
	Logger = New(config.GConfig)
}

// New sets the global level and returns a logger writing to the rotating log
// file. At debug and below the console gets a copy, the panel has no other
// feedback channel while developing.
func New(cfg *config.Config) zerolog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)

	var sink io.Writer = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
	}
	if level <= zerolog.DebugLevel {
		sink = zerolog.MultiLevelWriter(sink, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly})
	}
	return zerolog.New(sink).With().Timestamp().Str("app", "koi").Logger()
}

// ForJob returns a child of Logger tagging every event with job_id.
func ForJob(jobID string) *zerolog.Logger {
	l := Logger.With().Str("job_id", jobID).Logger()
	return &l
}

// parseLogLevel falls back to info for empty or unknown names.
func parseLogLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
