package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := configFromEnv(DefaultConfig())
	configStore.Update(cfg)
	setupLogging(cfg)

	scores := NewScoreStore()
	loadScorePersistence(cfg, scores)

	var persistOnce sync.Once
	persistOnShutdown := func(reason string) {
		persistOnce.Do(func() {
			serverLogger.Info().Str("reason", reason).Msg("persisting scores")
			persistScorePersistence(GetConfig(), scores)
		})
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			serverLogger.Error().Interface("panic", recovered).Msg("panic recovered in main")
			persistOnShutdown("panic")
			os.Exit(1)
		}
	}()

	app := newServer(DefaultGameSettings(), loadOpeningBook(cfg), frandSource{}, scores)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	group, ctx := errgroup.WithContext(sigCtx)

	group.Go(func() error {
		app.hub.Run(ctx.Done())
		return nil
	})
	group.Go(func() error {
		app.hintHub.Run(ctx.Done())
		return nil
	})
	group.Go(func() error {
		return app.tickLoop(ctx)
	})
	group.Go(func() error {
		serverLogger.Info().Str("addr", cfg.ListenAddr).Msg("backend listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		serverLogger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Warn().Err(err).Msg("graceful shutdown failed")
			if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
				serverLogger.Warn().Err(closeErr).Msg("forced close failed")
			}
		}
		return nil
	})

	runErr := group.Wait()
	persistOnShutdown("shutdown")
	if runErr != nil {
		log.Error().Err(runErr).Msg("backend exiting after server error")
		os.Exit(1)
	}
}
