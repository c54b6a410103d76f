package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGoogle(t *testing.T) {
	raw := RawProfile{
		"sub":            "108523",
		"email":          " Ada@Example.COM ",
		"email_verified": true,
		"name":           "Ada Lovelace",
		"picture":        "https://lh3.example.com/photo.jpg",
	}

	id := Normalize(ProviderGoogle, raw)
	require.NotNil(t, id)

	assert.Equal(t, ProviderGoogle, id.Provider)
	assert.Equal(t, "108523", id.ProviderUserID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada Lovelace", id.Name)
	assert.Equal(t, "https://lh3.example.com/photo.jpg", id.PictureURL)
	assert.True(t, id.EmailVerified)
}

func TestNormalizeGitHub(t *testing.T) {
	t.Run("numeric id and avatar_url", func(t *testing.T) {
		raw := RawProfile{
			"id":         float64(583231),
			"login":      "octocat",
			"name":       "The Octocat",
			"email":      "octocat@github.com",
			"avatar_url": "https://avatars.example.com/u/583231",
		}

		id := Normalize(ProviderGitHub, raw)
		require.NotNil(t, id)

		assert.Equal(t, "583231", id.ProviderUserID)
		assert.Equal(t, "The Octocat", id.Name)
		assert.Equal(t, "https://avatars.example.com/u/583231", id.PictureURL)
	})

	t.Run("login fallback when name empty", func(t *testing.T) {
		raw := RawProfile{
			"id":    float64(1),
			"login": "octocat",
			"email": "octocat@github.com",
		}

		id := Normalize(ProviderGitHub, raw)
		require.NotNil(t, id)
		assert.Equal(t, "octocat", id.Name)
		assert.Empty(t, id.PictureURL)
	})
}

func TestNormalizeFacebookNestedPicture(t *testing.T) {
	raw := RawProfile{
		"id":    "10226",
		"name":  "Grace Hopper",
		"email": "grace@example.com",
		"picture": map[string]any{
			"data": map[string]any{
				"url":           "https://graph.example.com/pic.jpg",
				"is_silhouette": false,
			},
		},
	}

	id := Normalize(ProviderFacebook, raw)
	require.NotNil(t, id)
	assert.Equal(t, "https://graph.example.com/pic.jpg", id.PictureURL)
}

func TestNormalizeMissingMandatoryFields(t *testing.T) {
	cases := map[string]RawProfile{
		"no id":    {"email": "x@example.com", "name": "X", "sub": ""},
		"no email": {"sub": "1", "name": "X"},
		"no name":  {"sub": "1", "email": "x@example.com"},
	}

	for label, raw := range cases {
		t.Run(label, func(t *testing.T) {
			assert.Nil(t, Normalize(ProviderGoogle, raw))
		})
	}
}

func TestNormalizeUnknownProvider(t *testing.T) {
	raw := RawProfile{"sub": "1", "email": "x@example.com", "name": "X"}
	assert.Nil(t, Normalize("myspace", raw))
	assert.Nil(t, Normalize(ProviderGoogle, nil))
}
