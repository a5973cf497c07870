package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/fitlog/internal/auth"
	"github.com/meltforce/fitlog/internal/config"
	fitmcp "github.com/meltforce/fitlog/internal/mcp"
	"github.com/meltforce/fitlog/internal/server"
	"github.com/meltforce/fitlog/internal/suggest"
	"github.com/meltforce/fitlog/internal/workout"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"tailscale.com/tsnet"
)

var migrationsPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "directory of postgres migrations")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := newLogger(os.Stdout)
	log.Info("FitLog starting", "version", Version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg.Database, migrationsPath, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var revoker auth.Revoker
	if cfg.Redis.Addr != "" {
		rr, err := auth.NewRedisRevoker(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rr.Close()
		revoker = rr
		log.Info("token revocation in redis", "addr", cfg.Redis.Addr)
	} else {
		revoker = auth.NewMemoryRevoker()
		log.Info("token revocation in memory")
	}

	hasher, err := auth.NewHasher(cfg.Auth.BcryptCost, cfg.Auth.Pepper)
	if err != nil {
		return err
	}
	tokens := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authSvc := auth.NewService(db, hasher, tokens, revoker, log)

	remote := suggest.NewRemoteClient(suggest.RemoteConfig{
		APIKey:  cfg.Suggest.APIKey,
		BaseURL: cfg.Suggest.BaseURL,
		Model:   cfg.Suggest.Model,
		Timeout: cfg.Suggest.Timeout(),
	})
	if remote.Configured() {
		log.Info("remote suggestions enabled", "model", remote.Model())
	} else {
		log.Info("remote suggestions disabled, using rules")
	}
	workouts := workout.NewService(db, suggest.NewResolver(remote, log), log)

	srv := server.New(authSvc, workouts, cfg.Server.CORSOrigins, log)
	srv.SetMCP(fitmcp.NewHTTPHandler(fitmcp.New(workouts, Version, log), server.UserIDFromContext))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			return fmt.Errorf("tsnet start: %w", err)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			return fmt.Errorf("tsnet listen: %w", err)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
