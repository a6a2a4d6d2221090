// ABOUTME: Configuration for the bi-admin CLI and TUI
// ABOUTME: Merges flags, BI_ADMIN_* environment, .env, and config.yaml through viper

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment variable key
	EnvPrefix = "BI_ADMIN"

	// DefaultAPIURL is the production API host
	DefaultAPIURL = "https://api.brandsinfo.in"

	// DefaultTimeout bounds every HTTP request
	DefaultTimeout = 30 * time.Second

	appDirName = "bi-admin"
)

// Keys shared between flag binding and Get
const (
	KeyAPIURL          = "api_url"
	KeyJSON            = "json"
	KeySessionFile     = "session_file"
	KeyTimeout         = "timeout"
	KeyDebug           = "debug"
	KeyCoalesceRefresh = "coalesce_refresh"
)

// Config is the resolved runtime configuration
type Config struct {
	APIURL          string        `mapstructure:"api_url"`
	JSONOutput      bool          `mapstructure:"json"`
	SessionFile     string        `mapstructure:"session_file"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Debug           bool          `mapstructure:"debug"`
	CoalesceRefresh bool          `mapstructure:"coalesce_refresh"`
}

// SetDefaults registers default values on the global viper instance
func SetDefaults() {
	viper.SetDefault(KeyAPIURL, DefaultAPIURL)
	viper.SetDefault(KeyJSON, false)
	viper.SetDefault(KeySessionFile, DefaultSessionFile())
	viper.SetDefault(KeyTimeout, DefaultTimeout)
	viper.SetDefault(KeyDebug, false)
	viper.SetDefault(KeyCoalesceRefresh, false)
}

// Init loads .env, environment, and the optional config file.
// configFile overrides the default $XDG_CONFIG_HOME/bi-admin/config.yaml.
func Init(configFile string) error {
	_ = godotenv.Load()

	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if dir := DefaultConfigDir(); dir != "" {
			viper.AddConfigPath(dir)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (configFile == "" && errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Get resolves the current configuration from viper
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.APIURL = NormalizeURL(cfg.APIURL)
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &cfg, nil
}

// DefaultConfigDir returns the config directory following XDG conventions
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultSessionFile returns the default session file location
func DefaultSessionFile() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "session.json")
}

// NormalizeURL trims whitespace and trailing slashes and adds https:// when no scheme is given
func NormalizeURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return u
	}
	if !strings.Contains(u, "://") {
		return "https://" + u
	}
	return u
}
