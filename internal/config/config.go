package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/pders01/narou/internal/narou"
)

const envPrefix = "NAROU"

// LogStderr as log.file sends log lines to stderr instead of a file.
const LogStderr = "-"

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// ProxyConfig holds proxy URLs by role. Empty means direct.
type ProxyConfig struct {
	HTTP  string `mapstructure:"http"`
	HTTPS string `mapstructure:"https"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File is the log file path, or LogStderr.
	File string `mapstructure:"file"`
}

type UIConfig struct {
	Colors    UIColors `mapstructure:"colors"`
	WrapWidth int      `mapstructure:"wrap_width"`
	// Opener overrides the platform link opener; empty probes PATH.
	Opener string `mapstructure:"opener"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".narou")

	return &Config{
		API: APIConfig{
			BaseURL:     narou.DefaultBaseURL,
			UserAgent:   narou.DefaultUserAgent,
			HTTPTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "archive.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(dataDir, "narou.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Muted:     "#94A3B8",
				Error:     "#F87171",
			},
			WrapWidth: 100,
		},
	}
}

// Default returns the built-in configuration, before any file or
// environment overrides.
func Default() *Config {
	return defaultConfig()
}

// DefaultPath is where Load looks when no explicit file is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "narou", "config.toml")
}

// settings flattens cfg into the nested map written to disk. Durations are
// stored as strings so the file stays readable.
func (c *Config) settings() map[string]interface{} {
	return map[string]interface{}{
		"api": map[string]interface{}{
			"base_url":     c.API.BaseURL,
			"user_agent":   c.API.UserAgent,
			"http_timeout": c.API.HTTPTimeout.String(),
		},
		"proxy": map[string]interface{}{
			"http":  c.Proxy.HTTP,
			"https": c.Proxy.HTTPS,
		},
		"database": map[string]interface{}{
			"path":         c.Database.Path,
			"timeout":      c.Database.Timeout.String(),
			"search_index": c.Database.SearchIndex,
		},
		"log": map[string]interface{}{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
		"ui": map[string]interface{}{
			"wrap_width": c.UI.WrapWidth,
			"opener":     c.UI.Opener,
			"colors": map[string]interface{}{
				"primary":   c.UI.Colors.Primary,
				"secondary": c.UI.Colors.Secondary,
				"accent":    c.UI.Colors.Accent,
				"muted":     c.UI.Colors.Muted,
				"error":     c.UI.Colors.Error,
			},
		},
	}
}

// setDefaults registers every leaf key so NAROU_* variables can override
// nested settings (NAROU_API_USER_AGENT -> api.user_agent).
func setDefaults(v *viper.Viper, prefix string, values map[string]interface{}) {
	for key, value := range values {
		if nested, ok := value.(map[string]interface{}); ok {
			setDefaults(v, prefix+key+".", nested)
			continue
		}
		v.SetDefault(prefix+key, value)
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, "", defaultConfig().settings())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	if cfg.Log.File != LogStderr {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
}

func Save(config *Config, path string) error {
	v := viper.New()
	for section, values := range config.settings() {
		v.Set(section, values)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// Marshal renders cfg as TOML, in the same layout Save writes.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg.settings())
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// ProxyMap returns the configured proxies keyed by role, skipping empty
// entries.
func (c *Config) ProxyMap() map[narou.ProxyRole]string {
	proxies := make(map[narou.ProxyRole]string, 2)
	for key, url := range map[string]string{"http": c.Proxy.HTTP, "https": c.Proxy.HTTPS} {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		// Keys are fixed above, so parsing cannot fail.
		role, _ := narou.ParseProxyRole(key)
		proxies[role] = url
	}
	return proxies
}

// ClientOptions translates the API and proxy sections into client options.
func (c *Config) ClientOptions() []narou.Option {
	opts := []narou.Option{
		narou.WithBaseURL(c.API.BaseURL),
		narou.WithUserAgent(c.API.UserAgent),
		narou.WithTimeout(c.API.HTTPTimeout),
	}
	if proxies := c.ProxyMap(); len(proxies) > 0 {
		opts = append(opts, narou.WithProxies(proxies))
	}
	return opts
}
