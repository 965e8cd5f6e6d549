package main

import (
	"context"
	"fmt"

	"github.com/Mohakgarg5/littlescreen-v2/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the process is interrupted, then drains pending notifications.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.IsSet("host") {
		r.config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		r.config.Server.Port = int(cmd.Int("port"))
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	app, dispatcher := r.buildApp(db)
	timeout := seconds(r.config.Server.ShutdownTimeoutSeconds, 10)

	r.logger.Info("starting littlescreen",
		"addr", r.config.Server.Addr(),
		"environment", r.config.Server.Environment,
		"database", r.config.Database.Path,
	)
	if r.config.Admin.Secret == "" {
		r.logger.Warn("admin secret not set, admin endpoints are disabled")
	}

	router := app.Handler()
	for _, route := range router.Routes() {
		r.logger.Debug("route", "pattern", route)
	}

	serveErr := server.Serve(ctx, r.config.Server.Addr(), router, timeout, r.logger)

	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		r.logger.Warn("notifications not drained", "error", err)
	}

	stats := dispatcher.Stats()
	r.logger.Info("notifications", "processed", stats.Processed, "failed", stats.Failed, "dropped", stats.Dropped)

	if serveErr != nil {
		return fmt.Errorf("serve: %w", serveErr)
	}
	return nil
}
