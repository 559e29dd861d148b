package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"phonics-audio/config"
	"phonics-audio/internal/handler"
	"phonics-audio/internal/router"
	"phonics-audio/log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated audio and ledger reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
			}
			ledger := openLedger()
			if ledger != nil {
				defer ledger.Close()
			}

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:              addr,
				Handler:           router.New(handler.NewHandler(ledger)),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.host and server.port)")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.GetLogger().Info("Server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
