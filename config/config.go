package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GConfig *Config

func Init(filePath string) {
	config, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}
	initFromYaml(config)
	err = GConfig.Verify()
	if err != nil {
		panic(err)
	}
}

func initFromYaml(config []byte) {
	c := Default()
	err := yaml.Unmarshal(config, c)
	if err != nil {
		panic(err)
	}
	GConfig = c
}

// Default returns the configuration used for any key missing from config.yml.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		LogFile:         "logs/koi.log",
		LogMaxSize:      100,
		LogMaxBackups:   5,
		LogMaxAge:       30,
		StorageSupplier: "local",
		Backend: Backend{
			BaseURL: "https://honkies.huestudios.xyz",
			Timeout: "2m",
		},
		Poll: Poll{
			Interval: "1s",
		},
		Canvas: Canvas{
			ProjectionPath: "projection.png",
		},
		Panel: Panel{
			Prompt:        "A beautiful mountain landscape in the style of greg rutkowski, oils on canvas.",
			PromptScale:   16.5,
			ImageStrength: 0.5,
			Steps:         60,
		},
		LocalStorage: LocalStorage{
			Directory: "layers",
		},
	}
}

type Config struct {
	LogLevel        string `yaml:"log_level"`
	LogFile         string `yaml:"log_file"`
	LogMaxSize      int    `yaml:"log_max_size"`
	LogMaxBackups   int    `yaml:"log_max_backups"`
	LogMaxAge       int    `yaml:"log_max_age"`
	StorageSupplier string `yaml:"storage_supplier"`
	HistoryEnabled  bool   `yaml:"history_enabled"`
	Backend         `yaml:"backend"`
	Poll            `yaml:"poll"`
	Canvas          `yaml:"canvas"`
	Panel           `yaml:"panel"`
	LocalStorage    `yaml:"local_storage"`
	AliOss          `yaml:"ali_oss"`
	MySQL           `yaml:"mysql"`
}

func (c *Config) Verify() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute url: %q", c.Backend.BaseURL)
	}
	if _, err = time.ParseDuration(c.Backend.Timeout); err != nil {
		return fmt.Errorf("backend.timeout: %w", err)
	}
	interval, err := time.ParseDuration(c.Poll.Interval)
	if err != nil {
		return fmt.Errorf("poll.interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("poll.interval must be positive")
	}
	if c.Poll.Timeout != "" {
		if _, err = time.ParseDuration(c.Poll.Timeout); err != nil {
			return fmt.Errorf("poll.timeout: %w", err)
		}
	}
	if c.Poll.MaxAttempts < 0 {
		return fmt.Errorf("poll.max_attempts must not be negative")
	}
	if c.Canvas.Path == "" {
		return fmt.Errorf("canvas.path is required")
	}
	if c.StorageSupplier != "local" && c.StorageSupplier != "ali_oss" {
		return fmt.Errorf("storage_supplier must be local or ali_oss")
	}
	return nil
}

type Backend struct {
	BaseURL      string `yaml:"base_url"`
	SessionToken string `yaml:"session_token"`
	WorkerID     string `yaml:"worker_id"`
	Timeout      string `yaml:"timeout"`
}

// RequestTimeout bounds a single HTTP exchange with the backend, not a whole job.
func (b Backend) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(b.Timeout)
	return d
}

type Poll struct {
	Interval    string `yaml:"interval"`
	MaxAttempts int    `yaml:"max_attempts"`
	Timeout     string `yaml:"timeout"`
}

func (p Poll) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(p.Interval)
	return d
}

func (p Poll) TimeoutDuration() time.Duration {
	if p.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(p.Timeout)
	return d
}

type Canvas struct {
	Path           string     `yaml:"path"`
	ProjectionPath string     `yaml:"projection_path"`
	Selection      *Selection `yaml:"selection"`
}

type Selection struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Panel struct {
	Prompt        string  `yaml:"prompt"`
	PromptScale   float64 `yaml:"prompt_scale"`
	ImageStrength float64 `yaml:"image_strength"`
	Rescaling     int     `yaml:"rescaling"`
	Steps         int     `yaml:"steps"`
	Seed          int64   `yaml:"seed"`
	RandomSeed    bool    `yaml:"random_seed"`
}

type LocalStorage struct {
	Directory string `yaml:"directory"`
}

type AliOss struct {
	AccessKeyId     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Directory       string `yaml:"directory"`
}

type MySQL struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}
