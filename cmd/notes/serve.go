package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notes-server/internal/config"
	"notes-server/internal/notes"
	"notes-server/internal/server"
)

var (
	addr      string
	publicDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :3000)")
	cmd.Flags().StringVar(&publicDir, "public", "", "Static asset directory (default <exe dir>/public)")
}

func runServe(cmd *cobra.Command, args []string) error {
	store := notes.NewStore(notes.Options{Timestamps: cfg.Features.Timestamps})
	srv := server.New(serverConfig(cfg, cmd.OutOrStdout()), store)

	// Start the HTTP server in a background goroutine so we can watch for signals.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		server.Info("shutting down", map[string]any{"signal": sig.String()})
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			server.Error("shutdown failed", nil, err)
			return err
		}
		server.Info("shutdown complete", nil)
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Error("server error", nil, err)
			return err
		}
		return nil
	}
}

// serverConfig maps the loaded settings onto the HTTP server.
func serverConfig(c config.Config, stdout io.Writer) server.Config {
	return server.Config{
		Addr:               c.Addr,
		PublicDir:          c.PublicDir,
		EnableClear:        c.Features.Clear,
		RateLimitPerMinute: c.RateLimit.PerMinute,
		TrustProxyHeaders:  c.RateLimit.TrustProxy,
		Version:            buildVersion(),
		Stdout:             stdout,
	}
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
