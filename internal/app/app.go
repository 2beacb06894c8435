// Package app assembles the session, gateways and HTTP surface from
// configuration and runs them as one unit.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"presage/internal/config"
	"presage/internal/logger"
	"presage/internal/session"
	livehttp "presage/internal/transport/http/live"
)

type App struct {
	cfg  *config.Config
	sess *session.Session
	http *livehttp.Server
}

func NewApp(cfg *config.Config, sess *session.Session, http *livehttp.Server) *App {
	return &App{cfg: cfg, sess: sess, http: http}
}

// Run blocks until the context is cancelled or a component fails fatally.
// External-source failures are absorbed inside the session; only setup
// errors surface here.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	logger.Infof("starting presage (env=%s symbol=%s oracle=%v)",
		a.cfg.App.Env, a.cfg.Market.Symbol, a.cfg.Oracle.Enabled)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("live http server error: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return a.sess.Run(ctx)
	})
	return group.Wait()
}

// Session exposes the running session (for test harnesses).
func (a *App) Session() *session.Session {
	if a == nil {
		return nil
	}
	return a.sess
}
