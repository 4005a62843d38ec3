package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/reusedev/koi/config"
	"github.com/reusedev/koi/internal/components/mysql"
	"github.com/reusedev/koi/internal/modules/history"
	"github.com/reusedev/koi/internal/modules/host"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/modules/observer"
	"github.com/reusedev/koi/internal/modules/panel"
	"github.com/reusedev/koi/internal/modules/queue"
	"github.com/reusedev/koi/internal/modules/storage"
	"github.com/reusedev/koi/internal/modules/tracker"
	"github.com/reusedev/koi/internal/service/http"
	"github.com/reusedev/koi/internal/service/http/handler"
	"github.com/reusedev/koi/tools"
)

var (
	httpPort   string
	configPath string
)

func init() {
	flag.StringVar(&httpPort, "http-port", "127.0.0.1:8765", "listen http port")
	flag.StringVar(&configPath, "config", "config.yml", "config file path")
}

func main() {
	flag.Parse()
	config.Init(configPath)
	logs.InitLogger()
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	store := tools.PanicOnError(storage.New(config.GConfig))
	var selection *host.Rect
	if s := config.GConfig.Canvas.Selection; s != nil {
		selection = &host.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	}
	doc := tools.PanicOnError(host.OpenFile(config.GConfig.Canvas.Path, selection, store, config.GConfig.Canvas.ProjectionPath))

	jobTracker := tracker.NewDefault()
	observers := []observer.Observer{jobTracker}
	if config.GConfig.HistoryEnabled {
		mysql.CreateDataBase(config.GConfig.MySQL)
		mysql.InitMySQL(config.GConfig.MySQL)
		if err := history.Migrate(); err != nil {
			panic(err)
		}
		observers = append(observers, history.NewRecorder())
		handler.InitHistory(history.Lookup)
	}

	queue.InitJobQueue(ctx, wg)
	controller := panel.NewController(doc, panel.DefaultParams(config.GConfig), panel.OptionsFromConfig(config.GConfig), queue.JobQueue, observers...)
	go controller.Run(ctx)
	handler.Init(controller, jobTracker)

	logs.Logger.Info().Str("canvas", config.GConfig.Canvas.Path).Str("listen", httpPort).Msg("koi panel started")
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	go func(ch chan os.Signal) {
		<-ch
		cancel()
		wg.Wait()
		os.Exit(0)
	}(osSignal)
	http.Serve(httpPort)
}
