package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/oauth2"
)

const installedSecret = `{
  "installed": {
    "client_id": "abc.apps.googleusercontent.com",
    "client_secret": "shh",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

const webSecret = `{
  "web": {
    "client_id": "web.apps.googleusercontent.com",
    "client_secret": "shh",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost/callback"]
  }
}`

// fakeAuthorizer returns a canned token without any interactive step.
type fakeAuthorizer struct {
	token *oauth2.Token
	err   error
	calls int
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	f.calls++
	return f.token, f.err
}

func TestParseClientCredentials(t *testing.T) {
	t.Run("installed layout", func(t *testing.T) {
		config, err := ParseClientCredentials([]byte(installedSecret))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.ClientID != "abc.apps.googleusercontent.com" {
			t.Errorf("unexpected client id: %s", config.ClientID)
		}
		if len(config.Scopes) != 2 {
			t.Errorf("expected 2 scopes, got %v", config.Scopes)
		}
	})

	t.Run("web layout", func(t *testing.T) {
		config, err := ParseClientCredentials([]byte(webSecret))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.ClientID != "web.apps.googleusercontent.com" {
			t.Errorf("unexpected client id: %s", config.ClientID)
		}
	})

	t.Run("garbage fails with ErrInvalidCredentials", func(t *testing.T) {
		_, err := ParseClientCredentials([]byte("not json"))
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestLoadClientCredentials(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := LoadClientCredentials("")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadClientCredentials(filepath.Join(t.TempDir(), "absent.json"))
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client_secret.json")
		if err := os.WriteFile(path, []byte(installedSecret), 0o600); err != nil {
			t.Fatal(err)
		}

		config, err := LoadClientCredentials(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.ClientSecret != "shh" {
			t.Errorf("unexpected secret: %s", config.ClientSecret)
		}
	})
}

func TestTokenCache(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), TokenCacheFile)
		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
		}

		if err := SaveToken(path, token); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("token cache missing: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected 0600 permissions, got %o", perm)
		}

		loaded, err := LoadToken(path)
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
			t.Errorf("token changed in round trip: %+v", loaded)
		}
	})

	t.Run("missing cache maps to ErrNotAuthenticated", func(t *testing.T) {
		_, err := LoadToken(filepath.Join(t.TempDir(), "absent.json"))
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestAuthenticator(t *testing.T) {
	oauthConfig := func(t *testing.T) *oauth2.Config {
		t.Helper()
		config, err := ParseClientCredentials([]byte(installedSecret))
		if err != nil {
			t.Fatal(err)
		}
		return config
	}

	t.Run("uses cached valid token without authorizing", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), TokenCacheFile)
		cached := &oauth2.Token{AccessToken: "cached", Expiry: time.Now().Add(time.Hour)}
		if err := SaveToken(cachePath, cached); err != nil {
			t.Fatal(err)
		}

		authorizer := &fakeAuthorizer{}
		a := NewAuthenticator(oauthConfig(t), cachePath, authorizer, nil)

		token, err := a.Token(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.AccessToken != "cached" {
			t.Errorf("expected cached token, got %q", token.AccessToken)
		}
		if authorizer.calls != 0 {
			t.Errorf("authorizer should not run with a valid cache, ran %d times", authorizer.calls)
		}
	})

	t.Run("empty cache triggers interactive flow and persists", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), TokenCacheFile)
		fresh := &oauth2.Token{AccessToken: "fresh", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}
		authorizer := &fakeAuthorizer{token: fresh}
		a := NewAuthenticator(oauthConfig(t), cachePath, authorizer, nil)

		token, err := a.Token(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.AccessToken != "fresh" {
			t.Errorf("expected fresh token, got %q", token.AccessToken)
		}
		if authorizer.calls != 1 {
			t.Errorf("expected 1 authorize call, got %d", authorizer.calls)
		}

		persisted, err := LoadToken(cachePath)
		if err != nil {
			t.Fatalf("token not persisted: %v", err)
		}
		if persisted.AccessToken != "fresh" {
			t.Errorf("persisted token mismatch: %+v", persisted)
		}
	})

	t.Run("authorizer failure maps to ErrAuthFailed", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), TokenCacheFile)
		authorizer := &fakeAuthorizer{err: errors.New("consent denied")}
		a := NewAuthenticator(oauthConfig(t), cachePath, authorizer, nil)

		_, err := a.Token(context.Background())
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("status and reset", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), TokenCacheFile)
		a := NewAuthenticator(oauthConfig(t), cachePath, &fakeAuthorizer{}, nil)

		if status := a.Status(); status.Present {
			t.Error("expected absent cache")
		}

		expiry := time.Now().Add(30 * time.Minute)
		if err := SaveToken(cachePath, &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}); err != nil {
			t.Fatal(err)
		}

		status := a.Status()
		if !status.Present || !status.HasRefresh {
			t.Errorf("unexpected status: %+v", status)
		}

		if err := a.Reset(); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if status := a.Status(); status.Present {
			t.Error("cache should be gone after reset")
		}

		// Resetting an already-empty cache is fine.
		if err := a.Reset(); err != nil {
			t.Errorf("second reset should be a no-op, got %v", err)
		}
	})
}
