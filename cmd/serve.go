package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/genresense/internal/server"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}
	if origin := cmd.String("cors-origin"); origin != "" {
		cfg.CORSOrigin = origin
	}

	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(server.NewAPI(server.APIOpts{
		Session:  session,
		Settings: r.settings,
		QuotaMax: r.config.Quota.MaxPerDay,
		Logger:   r.logger,
	}))
	router.Handler(server.NewLoginHandler(session))

	srv := server.NewHTTPServer(cfg.Addr(), server.CORS(cfg.CORSOrigin)(router))

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/health", cfg.Addr())
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	r.writePlain("GenreSense API on http://%s (provider: %s)\n", cfg.Addr(), session.Snapshot().Provider)
	return server.ListenAndServe(ctx, srv, r.logger)
}
