package main

import (
	// Go Internal Packages
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	// External Packages
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// serve runs server until ctx is done and returns only after in-flight
// requests finished, so a verify is never cut off between two registry calls.
func serve(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	return serveListener(ctx, server, listener, logger)
}

func serveListener(ctx context.Context, server *http.Server, listener net.Listener, logger *zap.Logger) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	err := server.Serve(listener)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	logger.Info("server stopped")
	return nil
}
