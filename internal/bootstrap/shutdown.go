package bootstrap

import (
	"context"
	"log/slog"

	"github.com/accrabet/accrabet/internal/notify"
	"github.com/accrabet/accrabet/internal/server"
	"github.com/accrabet/accrabet/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown
type ShutdownComponents struct {
	Server     *server.Server
	Ticker     *worker.ContestTicker
	Pool       *worker.Pool
	Dispatcher *notify.Dispatcher
}

// GracefulShutdown stops the application in order:
// 1. HTTP server (stop accepting new requests)
// 2. Contest ticker (no new phase transitions, so no new settlement jobs)
// 3. Worker pool (in-flight settlement jobs drain)
// 4. Notification dispatcher (pending deliveries flush)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Ticker != nil {
		if err := components.Ticker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgTickerShutdownFailed, "error", err)
		}
	}

	if components.Pool != nil {
		components.Pool.Stop()
	}

	if components.Dispatcher != nil {
		components.Dispatcher.Shutdown()
	}

	slog.Info(LogMsgServerStopped)
}
