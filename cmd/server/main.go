package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/config"
	"github.com/oggyb/liftlink/internal/db"
	"github.com/oggyb/liftlink/internal/logger"
	"github.com/oggyb/liftlink/internal/notify"
	"github.com/oggyb/liftlink/internal/server"
	"github.com/oggyb/liftlink/internal/service/account"
	"github.com/oggyb/liftlink/internal/service/dev"
	"github.com/oggyb/liftlink/internal/service/gym"
	"github.com/oggyb/liftlink/internal/service/matching"
	"github.com/oggyb/liftlink/internal/service/posts"
	"github.com/oggyb/liftlink/internal/service/profiles"
	"github.com/oggyb/liftlink/internal/session"
)

func main() {
	cfg := config.Load()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}
	defer db.Close(database)

	// Init sessions (memory or redis)
	sessions, err := session.New(ctx, cfg)
	if err != nil {
		log.Error("failed to init session store", "backend", cfg.Session.Backend, "err", err)
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(notify.NewSender(cfg, log), log)

	appCtx := app.New(cfg, database, sessions, dispatcher, log)

	registrars := []server.RouteRegistrar{
		account.NewRegistrar(appCtx),
		gym.NewRegistrar(appCtx),
		posts.NewRegistrar(appCtx),
		profiles.NewRegistrar(appCtx),
		matching.NewRegistrar(appCtx),
		dev.NewRegistrar(appCtx),
	}
	if cfg.IsDevelopment() {
		log.Warn("development mode, /api/reset and /api/seed are enabled")
	}

	httpServer := server.NewHTTPServer(appCtx, registrars...)
	errCh := make(chan error, 2)
	go func() {
		log.Info("starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPC.Enabled {
		lis, err := server.ListenGRPC(cfg)
		if err != nil {
			log.Error("failed to start gRPC server", "err", err)
			os.Exit(1)
		}
		grpcServer = server.NewGRPCServer(server.NewHealthRegistrar("liftlink"))
		go func() {
			log.Info("starting gRPC server", "addr", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server failed", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("pending notifications dropped", "err", err)
	}
	log.Info("server stopped")
}
