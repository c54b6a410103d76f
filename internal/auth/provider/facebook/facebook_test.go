package facebook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jokehub/internal/auth"
	"jokehub/internal/auth/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGraph(t *testing.T, tokenStatus, profileStatus int) (*Provider, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if tokenStatus != 0 {
			w.WriteHeader(tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fb_test",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id,name,email,picture", r.URL.Query().Get("fields"))
		if profileStatus != 0 {
			w.WriteHeader(profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "10226",
			"name":  "Grace Hopper",
			"email": "grace@example.com",
			"picture": map[string]any{
				"data": map[string]any{
					"url": "https://graph.example.com/pic.jpg",
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	endpoint := oauth2.Endpoint{
		AuthURL:   srv.URL + "/dialog/oauth",
		TokenURL:  srv.URL + "/oauth/access_token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	p, err := NewWithEndpoints("cid", "csecret", "https://app.example.com/auth/facebook/callback",
		endpoint, srv.URL+"/me")
	require.NoError(t, err)
	return p, srv
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New("cid", "", "https://cb.example.com")
	assert.Error(t, err)
}

func TestHandleCallbackNestedPicture(t *testing.T) {
	p, _ := newFakeGraph(t, 0, 0)

	raw, err := p.HandleCallback(context.Background(), "code-1")
	require.NoError(t, err)

	// The adapter passes the nesting through; the normalizer unwraps it.
	identity := auth.Normalize(auth.ProviderFacebook, raw)
	require.NotNil(t, identity)
	assert.Equal(t, "10226", identity.ProviderUserID)
	assert.Equal(t, "https://graph.example.com/pic.jpg", identity.PictureURL)
}

func TestHandleCallbackExchangeFailure(t *testing.T) {
	p, _ := newFakeGraph(t, http.StatusBadGateway, 0)

	_, err := p.HandleCallback(context.Background(), "code-1")
	assert.ErrorIs(t, err, provider.ErrExchangeFailed)
}

func TestHandleCallbackUserInfoFailure(t *testing.T) {
	p, _ := newFakeGraph(t, 0, http.StatusInternalServerError)

	_, err := p.HandleCallback(context.Background(), "code-1")
	assert.ErrorIs(t, err, provider.ErrUserInfoFailed)
}
