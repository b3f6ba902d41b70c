// Package config provides configuration management for canvas.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration locations, relative to the home directory.
const (
	DefaultConfigDir  = ".config/canvas"
	DefaultConfigFile = "config.yaml"
	DefaultDataDir    = ".local/share/canvas"
)

// EnvPrefix prefixes every environment override (CANVAS_REMOTE_API_KEY, ...).
const EnvPrefix = "CANVAS"

const defaultRuntimeImage = "docker.io/library/node:22-bookworm-slim"

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey     = errors.New("invalid configuration key")
	ErrInvalidValue   = errors.New("invalid configuration value")
	ErrInvalidRuntime = errors.New("invalid runtime name")
	ErrNoEditor       = errors.New("$EDITOR environment variable not set")
)

var validRuntimes = []string{"docker", "podman"}

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

var validate = validator.New()

// Config represents the full canvas configuration.
type Config struct {
	Runtime RuntimeConfig `mapstructure:"runtime" yaml:"runtime" validate:"required"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview" validate:"required"`
	Remote  RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" validate:"required"`
	Serve   ServeConfig   `mapstructure:"serve" yaml:"serve"`
}

// RuntimeConfig configures the isolated runtime container.
type RuntimeConfig struct {
	Name      string         `mapstructure:"name" yaml:"name" validate:"required,oneof=docker podman"`
	Container string         `mapstructure:"container" yaml:"container" validate:"required,hostname_rfc1123"`
	Image     string         `mapstructure:"image" yaml:"image" validate:"required"`
	Port      int            `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	Flags     map[string]any `mapstructure:"flags" yaml:"flags"`
}

// PreviewConfig configures preview sessions.
type PreviewConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	RefreshDelay   time.Duration `mapstructure:"refresh_delay" yaml:"refresh_delay" validate:"gte=0"`
	InstallCommand string        `mapstructure:"install_command" yaml:"install_command" validate:"required"`
	DevCommand     string        `mapstructure:"dev_command" yaml:"dev_command" validate:"required"`
}

// RemoteConfig configures the remote code execution service.
type RemoteConfig struct {
	URL      string        `mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Template string        `mapstructure:"template" yaml:"template"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// StorageConfig holds storage location configuration.
type StorageConfig struct {
	Catalog   string `mapstructure:"catalog" yaml:"catalog" validate:"required"`
	Logs      string `mapstructure:"logs" yaml:"logs" validate:"required"`
	Workspace string `mapstructure:"workspace" yaml:"workspace" validate:"required"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// IsValidRuntime reports whether name is a supported container runtime.
func IsValidRuntime(name string) bool {
	return slices.Contains(validRuntimes, name)
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a loader for ~/.config/canvas/config.yaml.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("runtime.name", "CANVAS_RUNTIME")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("storage.workspace", "CANVAS_WORKSPACE")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}
	setDefaults(v)

	return l, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runtime.name", "docker")
	v.SetDefault("runtime.container", "canvas-runtime")
	v.SetDefault("runtime.image", defaultRuntimeImage)
	v.SetDefault("runtime.port", 5173)
	v.SetDefault("runtime.flags", map[string]any{})
	v.SetDefault("preview.timeout", "60s")
	v.SetDefault("preview.refresh_delay", "500ms")
	v.SetDefault("preview.install_command", "npm install --no-audit --no-fund")
	v.SetDefault("preview.dev_command", "npm run dev")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.template", "code-interpreter")
	v.SetDefault("remote.timeout", "60s")
	v.SetDefault("storage.catalog", "~/"+DefaultDataDir+"/catalog.json")
	v.SetDefault("storage.logs", "~/"+DefaultDataDir+"/logs")
	v.SetDefault("storage.workspace", "~/"+DefaultDataDir+"/workspace")
	v.SetDefault("serve.addr", "127.0.0.1:8787")
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}

	cfg.Storage.Catalog = l.expandPath(cfg.Storage.Catalog)
	cfg.Storage.Logs = l.expandPath(cfg.Storage.Logs)
	cfg.Storage.Workspace = l.expandPath(cfg.Storage.Workspace)

	return cfg, nil
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// Set validates and persists a configuration value by dot-notation key.
// Nothing is written if the resulting configuration fails validation.
// Only the file's own contents are rewritten, so environment overrides
// (such as CANVAS_REMOTE_API_KEY) never leak into it.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if key == "runtime.name" && !IsValidRuntime(value) {
		return fmt.Errorf("%w: %s (valid: %s)", ErrInvalidRuntime, value, strings.Join(validRuntimes, ", "))
	}

	prev := l.v.Get(key)
	l.v.Set(key, value)

	cfg, err := l.decode()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		l.v.Set(key, prev)
		return fmt.Errorf("%w: %s=%s: %w", ErrInvalidValue, key, value, err)
	}

	file := viper.New()
	file.SetConfigFile(l.path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	file.Set(key, value)

	return file.WriteConfig()
}

// createDefault writes a file holding only the built-in defaults.
func (l *Loader) createDefault() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	defaults := viper.New()
	defaults.SetConfigType("yaml")
	setDefaults(defaults)

	return defaults.SafeWriteConfigAs(l.path)
}

// expandPath replaces a leading ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a valid configuration key.
// runtime.flags.<name> addresses a single run flag.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if validKeys[key] {
		return nil
	}
	if name, ok := strings.CutPrefix(key, "runtime.flags."); ok && name != "" && !strings.Contains(name, ".") {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// Keys returns every valid top-level and nested key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(validKeys))
	for k := range validKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds mapstructure keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}
