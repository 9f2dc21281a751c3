// package auth manages OAuth2 credential material: client secret parsing,
// the persisted token cache, and the interactive consent flow.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// TokenCacheFile names the token cache file inside the config directory.
const TokenCacheFile = "token_cache.json"

// Scopes returns the OAuth2 scopes the tool requests: read access for
// source playlists plus write access for mutating targets.
func Scopes() []string {
	return []string{youtube.YoutubeReadonlyScope, youtube.YoutubeScope}
}

// ParseClientCredentials parses a Google OAuth2 client secret JSON document.
// Both the "installed" and "web" layouts are accepted.
func ParseClientCredentials(data []byte) (*oauth2.Config, error) {
	config, err := google.ConfigFromJSON(data, Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCredentials, err)
	}
	return config, nil
}

// LoadClientCredentials reads and parses the client secret file at path.
// An empty or missing path maps to [shared.ErrMissingCredentials] so the CLI
// can tell the user to run `plsync config --oauth2-json`.
func LoadClientCredentials(path string) (*oauth2.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no oauth2_json path configured", shared.ErrMissingCredentials)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingCredentials, path)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return ParseClientCredentials(data)
}

// LoadToken reads a cached [oauth2.Token] from path.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no token cache at %s", shared.ErrNotAuthenticated, path)
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: corrupt token cache: %v", shared.ErrNotAuthenticated, err)
	}

	return &token, nil
}

// SaveToken persists a token to path atomically with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create token cache directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "token-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to set token permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace token cache: %w", err)
	}

	return nil
}

// Authorizer abstracts the interactive consent step (browser + loopback
// callback) so tests can supply a fake that returns a canned token.
type Authorizer interface {
	Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// Authenticator produces valid OAuth2 tokens, consulting the persisted
// cache first and falling back to the interactive flow.
type Authenticator struct {
	config     *oauth2.Config
	cachePath  string
	authorizer Authorizer
	logger     *log.Logger
}

// NewAuthenticator creates an Authenticator over a parsed client config and
// a token cache file location.
func NewAuthenticator(config *oauth2.Config, cachePath string, authorizer Authorizer, logger *log.Logger) *Authenticator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Authenticator{
		config:     config,
		cachePath:  cachePath,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Token returns a valid token, refreshing or re-authorizing as needed.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	source, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return source.Token()
}

// TokenSource returns an auto-refreshing [oauth2.TokenSource] that
// re-persists the cache whenever a refresh produces a new access token.
//
// A cached token is usable if it is still valid or carries a refresh token;
// otherwise the interactive flow runs once up front.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cached, err := LoadToken(a.cachePath)
	if err != nil || (!cached.Valid() && cached.RefreshToken == "") {
		if err != nil {
			a.logger.Debug("token cache unusable", "error", err)
		}
		if cached, err = a.Login(ctx); err != nil {
			return nil, err
		}
	}

	return &persistingTokenSource{
		path:   a.cachePath,
		source: a.config.TokenSource(ctx, cached),
		last:   cached,
		logger: a.logger,
	}, nil
}

// Login runs the interactive flow unconditionally and persists the result.
func (a *Authenticator) Login(ctx context.Context) (*oauth2.Token, error) {
	if a.authorizer == nil {
		return nil, fmt.Errorf("%w: no authorizer configured", shared.ErrAuthFailed)
	}

	token, err := a.authorizer.Authorize(ctx, a.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := SaveToken(a.cachePath, token); err != nil {
		return nil, err
	}

	a.logger.Info("authorization complete", "cache", a.cachePath)
	return token, nil
}

// CacheStatus describes the persisted token cache for `plsync auth status`.
type CacheStatus struct {
	Present    bool
	HasRefresh bool
	Expiry     time.Time
}

// Status inspects the token cache without triggering any network calls.
func (a *Authenticator) Status() CacheStatus {
	token, err := LoadToken(a.cachePath)
	if err != nil {
		return CacheStatus{}
	}
	return CacheStatus{
		Present:    true,
		HasRefresh: token.RefreshToken != "",
		Expiry:     token.Expiry,
	}
}

// Reset deletes the token cache, forcing re-authentication on the next run.
// A missing cache is not an error.
func (a *Authenticator) Reset() error {
	if err := os.Remove(a.cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token cache: %w", err)
	}
	return nil
}

// persistingTokenSource wraps the library token source and writes the cache
// back whenever the access token changes (i.e. after a refresh).
type persistingTokenSource struct {
	path   string
	source oauth2.TokenSource
	last   *oauth2.Token
	logger *log.Logger
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if s.last == nil || token.AccessToken != s.last.AccessToken {
		if err := SaveToken(s.path, token); err != nil {
			s.logger.Warn("failed to persist refreshed token", "error", err)
		}
		s.last = token
	}

	return token, nil
}
