// Package server implements the command that runs the ULTRABUILD HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ultrabuild/ultrabuild/app"
	"github.com/ultrabuild/ultrabuild/config"
)

const shutdownTimeout = 30 * time.Second

// NewCmdServer creates the server command. cfg is resolved when the command runs.
func NewCmdServer(cfg func() *config.Config) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the ULTRABUILD API server",
		Long:  "Starts the HTTP API, the deployment event stream and the metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if c == nil {
				return errors.New("configuration not initialized")
			}
			if host != "" {
				c.HTTPHost = host
			}
			if port != 0 {
				c.HTTPPort = port
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go handleShutdown(cancel)

			return runServer(ctx, c)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Address to listen on (overrides HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides PORT)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	address := net.JoinHostPort(cfg.HTTPHost, strconv.Itoa(cfg.HTTPPort))
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return serve(ctx, cfg, ln)
}

// serve runs the API on ln until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.Hub.Run(hubCtx)

	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", fmt.Sprintf("http://%s", ln.Addr()), "version", app.Version)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var errs []error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			slog.Error("Web server failed", "layer", "server", "operation", "serve", "error", err)
			errs = append(errs, err)
		}
	}

	slog.Info("Shutting down web server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("web server shutdown failed: %w", err))
	}
	stopHub()
	if err := a.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("application shutdown failed: %w", err))
	}

	slog.Info("Web server stopped")
	return errors.Join(errs...)
}

// handleShutdown handles OS signals for graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutdown signal received")
	cancel()
}
