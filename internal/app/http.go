package app

import (
	"context"
	"errors"

	"jokehub/internal/auth/handler"
	"jokehub/internal/auth/provider"
	"jokehub/internal/auth/provider/facebook"
	"jokehub/internal/auth/provider/github"
	"jokehub/internal/auth/provider/google"
	"jokehub/internal/auth/resolver"
	"jokehub/internal/config"
	"jokehub/internal/jokes"
	"jokehub/internal/logger"
	"jokehub/internal/middleware"
	"jokehub/internal/token"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	revocations := token.NewRedisRevocationStore(infra.Redis.Client)

	tokens, err := token.NewService(
		cfg.TokenSecret,
		cfg.TokenIssuer,
		cfg.TokenAudience,
		cfg.TokenTTL(),
		revocations,
	)
	if err != nil {
		return nil, nil, err
	}

	identityResolver := resolver.NewDBResolver(infra.DB)

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(
		registry,
		identityResolver,
		tokens,
		cfg.FrontendBaseURL,
		cfg.FrontendCallbackPath,
	)

	jokeHandler := jokes.NewHandler(jokes.NewRepository(infra.DB))

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// API Routes
	// ----------------------------

	public := router.Group("/api")

	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth(tokens))

	jokeHandler.RegisterRoutes(public, protected)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return errors.Join(infra.Redis.Close(), infra.DB.Close())
	}, nil
}

// setupProviders constructs every provider whose credentials are
// complete. An incompletely configured provider is skipped with a log
// line, so its routes answer 404 instead of failing mid-flow.
func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.Google.Complete() {
		p, err := google.New(ctx, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("google provider not configured", nil)
	}

	if cfg.GitHub.Complete() {
		p, err := github.New(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.RedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("github provider not configured", nil)
	}

	if cfg.Facebook.Complete() {
		p, err := facebook.New(cfg.Facebook.ClientID, cfg.Facebook.ClientSecret, cfg.Facebook.RedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("facebook provider not configured", nil)
	}

	registry := provider.NewRegistry(list...)

	logger.Info("oauth providers registered", map[string]any{
		"providers": registry.Names(),
	})

	return registry, nil
}
