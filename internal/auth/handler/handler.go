// Package handler orchestrates the OAuth callback flow: provider round
// trip, normalization, reconciliation, token issuance. Every failure mode
// is an explicit reason code redirected back to the frontend; a browser
// sitting on a redirect cannot act on a JSON error body.
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"jokehub/internal/auth"
	"jokehub/internal/auth/provider"
	"jokehub/internal/auth/resolver"
	"jokehub/internal/logger"
	"jokehub/internal/token"

	"github.com/gin-gonic/gin"
)

// Stable flow-failure reason codes carried in the error query parameter.
const (
	reasonNoCode             = "no_code"
	reasonInvalidState       = "invalid_state"
	reasonProviderError      = "provider_error"
	reasonUserCreationFailed = "user_creation_failed"
	reasonInfrastructure     = "infrastructure_error"
)

type Handler struct {
	providers *provider.Registry
	resolver  resolver.Resolver
	tokens    *token.Service

	frontendBase string
	callbackPath string
}

func NewHandler(
	registry *provider.Registry,
	resolver resolver.Resolver,
	tokens *token.Service,
	frontendBase string,
	callbackPath string,
) *Handler {
	return &Handler{
		providers:    registry,
		resolver:     resolver,
		tokens:       tokens,
		frontendBase: strings.TrimRight(frontendBase, "/"),
		callbackPath: callbackPath,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/:provider/login", h.login)
	r.GET("/auth/:provider/callback", h.callback)
	r.GET("/auth/status", h.status)
	r.POST("/auth/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)

	authURL, err := p.AuthorizationURL(state)
	if err != nil {
		logger.Error("authorization url generation failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusNotFound, gin.H{
			"error": "provider not available",
		})
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	tok, reason := h.runFlow(c, p)
	if reason != "" {
		h.redirectError(c, reason)
		return
	}
	h.redirectSuccess(c, tok, p.Name())
}

// runFlow walks the callback through its stages and returns either an
// issued token or a stable failure reason. Causes are logged here and
// never leak into the redirect.
func (h *Handler) runFlow(c *gin.Context, p provider.OAuthProvider) (string, string) {
	code := c.Query("code")
	if code == "" {
		logger.Warn("oauth callback missing code", map[string]any{
			"provider": p.Name(),
			"error":    c.Query("error"),
			"desc":     c.Query("error_description"),
		})
		return "", reasonNoCode
	}

	if !validateState(c) {
		logger.Warn("oauth callback state mismatch", map[string]any{
			"provider": p.Name(),
		})
		return "", reasonInvalidState
	}

	raw, err := p.HandleCallback(c.Request.Context(), code)
	if err != nil {
		logger.Error("oauth provider callback failed", map[string]any{
			"provider": p.Name(),
			"error":    err.Error(),
		})
		return "", reasonProviderError
	}

	identity := auth.Normalize(p.Name(), raw)
	if identity == nil {
		logger.Error("identity normalization failed", map[string]any{
			"provider": p.Name(),
		})
		return "", reasonUserCreationFailed
	}

	user, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("identity reconciliation failed", map[string]any{
			"provider": p.Name(),
			"error":    err.Error(),
		})
		return "", reasonInfrastructure
	}

	tok, err := h.tokens.Generate(user.ID, user.Email, user.Name, user.Role, p.Name())
	if err != nil {
		logger.Error("session token issuance failed", map[string]any{
			"provider": p.Name(),
			"user_id":  user.ID,
			"error":    err.Error(),
		})
		return "", reasonInfrastructure
	}

	logger.Info("login succeeded", map[string]any{
		"provider": p.Name(),
		"user_id":  user.ID,
	})
	return tok, ""
}

func (h *Handler) redirectSuccess(c *gin.Context, tok, providerName string) {
	q := url.Values{}
	q.Set("token", tok)
	q.Set("provider", providerName)
	c.Redirect(http.StatusFound, h.frontendBase+h.callbackPath+"?"+q.Encode())
}

func (h *Handler) redirectError(c *gin.Context, reason string) {
	q := url.Values{}
	q.Set("error", reason)
	c.Redirect(http.StatusFound, h.frontendBase+h.callbackPath+"?"+q.Encode())
}

type statusResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	UserID          string `json:"userId,omitempty"`
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	Role            string `json:"role,omitempty"`
}

func (h *Handler) status(c *gin.Context) {
	raw := token.FromRequest(c.Request)

	claims, err := h.tokens.Validate(c.Request.Context(), raw)
	if err != nil {
		c.JSON(http.StatusOK, statusResponse{IsAuthenticated: false})
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		IsAuthenticated: true,
		UserID:          claims.Subject,
		Email:           claims.Email,
		Name:            claims.Name,
		Role:            claims.Role,
	})
}

func (h *Handler) logout(c *gin.Context) {
	raw := token.FromRequest(c.Request)

	claims, err := h.tokens.Validate(c.Request.Context(), raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
		})
		return
	}

	if err := h.tokens.Invalidate(c.Request.Context(), raw); err != nil {
		logger.Error("token revocation failed", map[string]any{
			"user_id": claims.Subject,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "logout failed",
		})
		return
	}

	logger.Info("logout", map[string]any{
		"user_id": claims.Subject,
	})
	c.JSON(http.StatusOK, gin.H{
		"status": "logged_out",
	})
}
