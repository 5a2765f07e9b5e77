package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/draft-notifier/internal/config"
	"github.com/DoyleJ11/draft-notifier/internal/httpapi"
	"github.com/DoyleJ11/draft-notifier/internal/hub"
	"github.com/DoyleJ11/draft-notifier/internal/monitor"
	"github.com/DoyleJ11/draft-notifier/internal/notify"
	"github.com/DoyleJ11/draft-notifier/internal/scheduler"
	"github.com/DoyleJ11/draft-notifier/internal/sleeper"
	"github.com/DoyleJ11/draft-notifier/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogDev)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regs, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}

	client := sleeper.NewClient(cfg.SleeperBaseURL,
		sleeper.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	composer := notify.NewComposer(sleeper.NewUserResolver(client))

	h := hub.NewHub(ctx)
	mon := monitor.New(client, regs, h, composer, logger)
	sched := scheduler.New(cfg.PollInterval, regs, mon, h, cfg.OpsChannelID, logger)

	api := httpapi.New(regs, client, mon, logger)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: httpapi.SetupRoutes(api, h)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.Duration("poll_interval", cfg.PollInterval))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
