package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// AppName names the per-user configuration directory under [os.UserConfigDir].
const AppName = "plsync"

// Config represents the application configuration loaded from a TOML file.
//
// Playlists is the authoritative rule list: one entry per sync target. The
// remaining tables tune authentication, sync behavior and the local history
// database.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Playlists   []Playlist        `toml:"playlists"`
	Sync        SyncConfig        `toml:"sync"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig locates the OAuth2 client material.
type CredentialsConfig struct {
	// OAuth2JSON is the path to a Google OAuth2 client secret file
	// ("installed" or "web" layout).
	OAuth2JSON string `toml:"oauth2_json"`
}

// Playlist is a sync rule: one target playlist fed by zero or more sources.
//
// Title is resolved from the remote API when the rule is added so listings
// stay human-readable without extra lookups.
type Playlist struct {
	ID       string   `toml:"id"`
	Title    string   `toml:"title"`
	SyncFrom []string `toml:"sync_from"`
}

// HasSource reports whether id is one of the playlist's sync sources.
func (p Playlist) HasSource(id string) bool {
	return slices.Contains(p.SyncFrom, id)
}

// SyncConfig tunes the sync engine.
type SyncConfig struct {
	// QuotaPolicy is "abort" (default) or "retry". Abort stops the whole run
	// on the first quota-exceeded response; retry backs off and tries again
	// up to MaxRetries before aborting.
	QuotaPolicy string `toml:"quota_policy"`
	// MaxRetries bounds retry attempts for retryable API failures.
	MaxRetries int `toml:"max_retries"`
	// InsertsPerSecond paces playlistItems.insert calls. 0 disables pacing.
	InsertsPerSecond float64 `toml:"inserts_per_second"`
}

// QuotaPolicyAbort and QuotaPolicyRetry are the accepted [SyncConfig.QuotaPolicy] values.
const (
	QuotaPolicyAbort = "abort"
	QuotaPolicyRetry = "retry"
)

// DatabaseConfig contains history database connection settings.
type DatabaseConfig struct {
	// Path of the SQLite file. Empty means "history.db" next to the config file.
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the loopback OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DefaultConfigDir returns the plsync directory under the platform config dir,
// creating it if needed.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve user config directory: %w", err)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// DefaultConfigPath returns the default config.toml location.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A missing file maps to [ErrMissingConfig] so callers can fall back to
// [DefaultConfig] on first run; anything unparsable maps to [ErrInvalidConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// LoadOrDefault loads the configuration at path, substituting the embedded
// defaults when no file exists yet.
func LoadOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err == nil {
		return config, nil
	}
	if errors.Is(err, ErrMissingConfig) {
		return DefaultConfig(), nil
	}
	return nil, err
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save persists the configuration to path atomically (write to a temp file in
// the same directory, then rename over the target).
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	return nil
}

// Rule returns the sync rule targeting id, if configured.
func (c *Config) Rule(id string) (*Playlist, bool) {
	for i := range c.Playlists {
		if c.Playlists[i].ID == id {
			return &c.Playlists[i], true
		}
	}
	return nil, false
}

// AddRule appends a new sync rule. The target id must not already be
// configured, and no source may itself sync from the target: rules A←B and
// B←A would ping-pong videos between the two playlists on alternating runs.
func (c *Config) AddRule(id, title string, sources []string) error {
	if id == "" {
		return fmt.Errorf("%w: playlist id", ErrMissingArgument)
	}
	if _, ok := c.Rule(id); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTarget, id)
	}
	for _, source := range sources {
		if source == id {
			return fmt.Errorf("%w: %s cannot sync from itself", ErrInvalidInput, id)
		}
		if rule, ok := c.Rule(source); ok && rule.HasSource(id) {
			return fmt.Errorf("%w: %s already syncs from %s", ErrInvalidInput, source, id)
		}
	}
	c.Playlists = append(c.Playlists, Playlist{ID: id, Title: title, SyncFrom: sources})
	return nil
}

// RemoveRule deletes the sync rule targeting id.
func (c *Config) RemoveRule(id string) error {
	for i := range c.Playlists {
		if c.Playlists[i].ID == id {
			c.Playlists = append(c.Playlists[:i], c.Playlists[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// Reset clears all sync rules. Credentials and tool settings are retained.
func (c *Config) Reset() {
	c.Playlists = nil
}

// SetCredentials records the OAuth2 client secret path.
func (c *Config) SetCredentials(path string) {
	c.Credentials.OAuth2JSON = path
}

// HistoryDBPath resolves the history database location relative to the
// directory holding the config file when no explicit path is configured.
func (c *Config) HistoryDBPath(configPath string) string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(filepath.Dir(configPath), "history.db")
}
