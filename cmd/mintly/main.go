package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"mintly/internal/backend"
	"mintly/internal/cli"
	"mintly/internal/log"
	"mintly/internal/repository"
	"mintly/internal/viewstate"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("MINTLY_LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	controller := viewstate.New(repository.New(res.Store, res.Store), viewstate.Options{
		Location:     cfg.Location(),
		SuggestDelay: cfg.SuggestDelay,
		MemoSize:     cfg.MemoSize,
		Logger:       logger,
	})
	if err := controller.Start(ctx); err != nil {
		logger.Error("Failed to start controller", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting mintly",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend,
		"timezone", cfg.Location().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return cli.NewShell(controller, os.Stdin, os.Stdout, logger).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return controller.Stop(stopCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("mintly stopped with error", log.FieldError, err)
	}
	controller.Close()
	logger.Info("mintly stopped", log.FieldOperation, log.OpShutdown)
}
