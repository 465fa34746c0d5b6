package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krau/floravision/config"
	"github.com/krau/floravision/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.C()
	slog.Info("Starting FloraVision")

	var srv *server.Server
	eng, err := loadEngine(ctx, cfg)
	if err != nil {
		// Keep serving so clients see a persistent error instead of a dead port.
		slog.Error("Classifier unavailable", slog.String("error", err.Error()))
		srv = server.Unavailable(err, cfg.Token)
	} else {
		defer eng.close()
		srv = server.New(eng.classifier, eng.labels, cfg.Token)
	}

	gin.SetMode(gin.ReleaseMode)
	addr := cfg.Host + ":" + cfg.Port
	httpServer := &http.Server{Addr: addr, Handler: srv.Router()}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening on", slog.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("Server error", slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
