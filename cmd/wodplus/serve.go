package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/wodplus/wodplus/internal/config"
	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/mcp"
)

var serveTransport string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server and the reminder runner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveTransport != "" {
			cfg.Transport.Mode = serveTransport
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		logger, closeLog := newLogger(cfg.Log)
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to start", "error", err)
			return err
		}
		defer a.Close()

		runnerDone := make(chan struct{})
		go func() {
			defer close(runnerDone)
			if err := a.runner.Run(ctx); err != nil {
				logger.Error("reminder runner error", "error", err)
			}
		}()
		defer func() {
			stop()
			<-runnerDone
		}()

		snapshots, err := a.activities.Watch(ctx)
		if err != nil {
			return err
		}
		go logActivitySnapshots(snapshots, logger)

		server := mcp.NewServer(a.mcpConfig())
		if cfg.Transport.Mode == config.ModeHTTP {
			return runHTTP(ctx, a, server)
		}
		logger.Info("starting stdio transport", "db", cfg.DB.Path)
		if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil
	},
}

// logActivitySnapshots summarizes every activity list the feed delivers until
// it closes.
func logActivitySnapshots(snapshots <-chan []activity.Activity, logger *slog.Logger) {
	for snapshot := range snapshots {
		selected := 0
		for _, a := range snapshot {
			if a.Selected {
				selected++
			}
		}
		logger.Info("activity snapshot", "count", len(snapshot), "selected", selected)
	}
}

func runHTTP(ctx context.Context, a *app, server *sdkmcp.Server) error {
	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewHTTPHandler(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport mode: stdio or http (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
