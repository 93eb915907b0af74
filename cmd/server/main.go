package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskservice/api/handler"
	"github.com/fastygo/taskservice/internal/config"
	"github.com/fastygo/taskservice/internal/infrastructure/monitor"
	"github.com/fastygo/taskservice/internal/middleware"
	"github.com/fastygo/taskservice/internal/router"
	"github.com/fastygo/taskservice/internal/services/lifecycle"
	"github.com/fastygo/taskservice/pkg/httpcontext"
	"github.com/fastygo/taskservice/pkg/logger"
	"github.com/fastygo/taskservice/repository"
	taskUC "github.com/fastygo/taskservice/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:        cfg.Logger.Level,
		Encoding:     cfg.Logger.Encoding,
		ErrorFile:    cfg.Logger.ErrorFile,
		CombinedFile: cfg.Logger.CombinedFile,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := openStore(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("store initialisation failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	mon := monitor.New(store, cfg.Store.Driver, cfg.Health.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	taskUseCase := taskUC.New(store, repository.SystemClock, zapLogger)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	r := router.New(handlers, router.Options{
		StaticDir: cfg.HTTP.StaticDir,
		Logger:    zapLogger,
	})

	server := newServer(cfg, r.Handler, zapLogger)

	manager.Go("http_server", func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
		)
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	if err := manager.Err(); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

// newServer wraps the router with the middleware chain. fasthttp's own
// messages go through zap so they reach the log files.
func newServer(cfg *config.Config, handler fasthttp.RequestHandler, zapLogger *zap.Logger) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:      middleware.CORS(middleware.AccessLog(zapLogger)(handler)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
		Logger:       zap.NewStdLog(zapLogger.Named("fasthttp")),
	}
}
