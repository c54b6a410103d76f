package app

import (
	"context"
	"errors"
	"net/http"

	"jokehub/internal/config"
	"jokehub/internal/logger"
)

// App owns the HTTP listener and the resource handles behind it. The
// cleanup closure releases the database and redis connections and is
// tied to Shutdown so the handles live exactly as long as the server.
type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppPort,
			Handler: router,
		},
		cleanup: cleanup,
	}, nil
}

func (a *App) Run() error {
	logger.Info("http server listening", map[string]any{
		"addr": a.httpServer.Addr,
	})
	return a.httpServer.ListenAndServe()
}

// Shutdown stops the listener and then releases the backing resources.
// Cleanup runs even when the listener does not stop within the context
// deadline.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	if a.cleanup != nil {
		err = errors.Join(err, a.cleanup())
	}
	return err
}
