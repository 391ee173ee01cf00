package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"retail-insights/internal/api"
	"retail-insights/internal/api/handler"
	"retail-insights/pkg/router"
	"retail-insights/pkg/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := utils.NewUploadDir(cfg.Sources.Dir).EnsureExists(); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	h := handler.New(handler.Deps{
		Insights:       a.insights,
		Auth:           a.auth,
		Installer:      a.installer,
		Notifier:       a.notifier,
		Uploads:        a.store,
		DB:             a.store,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	r := router.New()
	r.SetLogger(log)
	r.SetObserver(api.ObserveRequest)
	r.Use(router.Recover, router.CORS(cfg.Server.CORSOrigin))
	api.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(fmt.Sprintf("🚀 Server started on %s", color.GreenString("http://%s", srv.Addr)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// let queued notifications finish
		return a.notifier.Wait(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("server exited properly")
	return nil
}
