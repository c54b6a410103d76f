package auth

import (
	"strconv"
	"strings"
)

// Provider tags. Route parameters, user columns and token claims all use
// these values.
const (
	ProviderGoogle   = "google"
	ProviderGitHub   = "github"
	ProviderFacebook = "facebook"
)

// Normalize maps a provider's raw user-info payload onto the canonical
// Identity. Optional fields default to empty rather than failing; it
// returns nil only when a mandatory field (id, email, name) is absent or
// the provider tag is unknown.
func Normalize(provider string, raw RawProfile) *Identity {
	if raw == nil {
		return nil
	}

	var id Identity
	id.Provider = provider

	switch provider {
	case ProviderGoogle:
		id.ProviderUserID = stringField(raw, "sub")
		id.Email = stringField(raw, "email")
		id.Name = stringField(raw, "name")
		id.PictureURL = stringField(raw, "picture")
		id.EmailVerified, _ = raw["email_verified"].(bool)

	case ProviderGitHub:
		id.ProviderUserID = numericID(raw["id"])
		id.Email = stringField(raw, "email")
		id.Name = stringField(raw, "name")
		if id.Name == "" {
			id.Name = stringField(raw, "login")
		}
		id.PictureURL = stringField(raw, "avatar_url")
		id.EmailVerified, _ = raw["email_verified"].(bool)

	case ProviderFacebook:
		id.ProviderUserID = stringField(raw, "id")
		id.Email = stringField(raw, "email")
		id.Name = stringField(raw, "name")
		// Facebook nests the avatar: picture.data.url
		id.PictureURL = nestedString(raw, "picture", "data", "url")

	default:
		return nil
	}

	id.Email = strings.ToLower(strings.TrimSpace(id.Email))

	if id.ProviderUserID == "" || id.Email == "" || id.Name == "" {
		return nil
	}
	return &id
}

func stringField(raw RawProfile, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

// nestedString walks sub-objects and returns the string at the leaf key.
func nestedString(raw RawProfile, keys ...string) string {
	var cur any = map[string]any(raw)
	for i, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[key]
		if i == len(keys)-1 {
			s, _ := cur.(string)
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// numericID renders GitHub's numeric account id as a string. JSON decodes
// numbers as float64; string ids pass through untouched.
func numericID(v any) string {
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return ""
	}
}
