package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pders01/narou/internal/narou"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.BaseURL != narou.DefaultBaseURL {
		t.Errorf("API.BaseURL = %s, want %s", cfg.API.BaseURL, narou.DefaultBaseURL)
	}
	if cfg.API.HTTPTimeout != 30*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 30s", cfg.API.HTTPTimeout)
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}

	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Database.Timeout = %v, want 1s", cfg.Database.Timeout)
	}
	if !strings.HasSuffix(cfg.Database.Path, filepath.Join(".narou", "archive.db")) {
		t.Errorf("Database.Path = %s, want it under ~/.narou", cfg.Database.Path)
	}

	if cfg.Proxy.HTTP != "" || cfg.Proxy.HTTPS != "" {
		t.Error("no proxies should be configured by default")
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want off", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.API.HTTPTimeout != 30*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 30s", cfg.API.HTTPTimeout)
	}
	if cfg.UI.WrapWidth != 100 {
		t.Errorf("UI.WrapWidth = %d, want 100", cfg.UI.WrapWidth)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[api]
base_url = "http://mirror.internal:8080"
user_agent = "test-agent"
http_timeout = "60s"

[proxy]
https = "http://proxy.internal:3128"

[database]
path = "/tmp/test.db"
timeout = "10s"

[log]
level = "debug"

[ui.colors]
primary = "#FF0000"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://mirror.internal:8080" {
		t.Errorf("API.BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.UserAgent != "test-agent" {
		t.Errorf("API.UserAgent = %s, want 'test-agent'", cfg.API.UserAgent)
	}
	if cfg.API.HTTPTimeout != 60*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 60s", cfg.API.HTTPTimeout)
	}
	if cfg.Proxy.HTTPS != "http://proxy.internal:3128" {
		t.Errorf("Proxy.HTTPS = %s", cfg.Proxy.HTTPS)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %s, want '/tmp/test.db'", cfg.Database.Path)
	}
	if cfg.Database.Timeout != 10*time.Second {
		t.Errorf("Database.Timeout = %v, want 10s", cfg.Database.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
	// Untouched keys keep their defaults.
	if cfg.UI.Colors.Secondary != "#4ECDC4" {
		t.Errorf("UI.Colors.Secondary = %s, want default", cfg.UI.Colors.Secondary)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() should fail for an explicit path that does not exist")
	}
}

func TestLoad_MissingExplicitFileIsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoad_LogStderrKept(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NAROU_LOG_FILE", LogStderr)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.File != LogStderr {
		t.Errorf("Log.File = %s, want %s", cfg.Log.File, LogStderr)
	}
}

func TestProxyMap(t *testing.T) {
	cfg := defaultConfig()
	cfg.Proxy.HTTP = "  http://proxy.internal:3128 "
	cfg.Proxy.HTTPS = ""

	got := cfg.ProxyMap()
	if len(got) != 1 {
		t.Fatalf("ProxyMap() = %v, want one entry", got)
	}
	if got[narou.ProxyHTTP] != "http://proxy.internal:3128" {
		t.Errorf("ProxyMap()[http] = %q", got[narou.ProxyHTTP])
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NAROU_API_USER_AGENT", "env-agent")
	t.Setenv("NAROU_PROXY_HTTP", "http://env-proxy.internal:3128")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.UserAgent != "env-agent" {
		t.Errorf("API.UserAgent = %s, want env-agent", cfg.API.UserAgent)
	}
	if cfg.Proxy.HTTP != "http://env-proxy.internal:3128" {
		t.Errorf("Proxy.HTTP = %s", cfg.Proxy.HTTP)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.API.UserAgent = "test-save-agent"
	cfg.API.HTTPTimeout = 45 * time.Second
	cfg.Proxy.HTTP = "http://proxy.internal:3128"
	cfg.Database.Path = "/test/path.db"
	cfg.UI.Colors.Primary = "#00FF00"

	savePath := filepath.Join(tmpDir, "nested", "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("Loaded Database.Path = %s, want %s", loaded.Database.Path, cfg.Database.Path)
	}
	if loaded.API.UserAgent != cfg.API.UserAgent {
		t.Errorf("Loaded API.UserAgent = %s, want %s", loaded.API.UserAgent, cfg.API.UserAgent)
	}
	if loaded.API.HTTPTimeout != cfg.API.HTTPTimeout {
		t.Errorf("Loaded API.HTTPTimeout = %v, want %v", loaded.API.HTTPTimeout, cfg.API.HTTPTimeout)
	}
	if loaded.Proxy.HTTP != cfg.Proxy.HTTP {
		t.Errorf("Loaded Proxy.HTTP = %s, want %s", loaded.Proxy.HTTP, cfg.Proxy.HTTP)
	}
	if loaded.UI.Colors.Primary != "#00FF00" {
		t.Errorf("Loaded UI.Colors.Primary = %s", loaded.UI.Colors.Primary)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.API.BaseURL != narou.DefaultBaseURL {
		t.Errorf("Generated config has API.BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Generated config has Database.Timeout = %v", cfg.Database.Timeout)
	}
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(defaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	text := string(out)
	for _, want := range []string{"[api]", "[proxy]", "[database]", "[log]", "[ui.colors]", "http_timeout = ", "30s"} {
		if !strings.Contains(text, want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, text)
		}
	}
}

func TestClientOptions(t *testing.T) {
	cfg := TestConfig()
	cfg.Proxy.HTTPS = "http://proxy.internal:3128"

	client, err := narou.NewClient(cfg.ClientOptions()...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if got, ok := client.Proxies().URL(narou.ProxyHTTPS); !ok || got != cfg.Proxy.HTTPS {
		t.Errorf("https proxy = %q (%v), want %q", got, ok, cfg.Proxy.HTTPS)
	}
	if _, ok := client.Proxies().URL(narou.ProxyHTTP); ok {
		t.Error("empty http proxy should not be registered")
	}

	cfg.Proxy.HTTP = "ftp://bad"
	if _, err := narou.NewClient(cfg.ClientOptions()...); err == nil {
		t.Error("invalid proxy should fail client construction")
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}

	if cfg.Database.Path != ":memory:" {
		t.Errorf("TestConfig Database.Path = %s, want ':memory:'", cfg.Database.Path)
	}
	if cfg.API.UserAgent != "narou-test/1.0" {
		t.Errorf("TestConfig API.UserAgent = %s, want 'narou-test/1.0'", cfg.API.UserAgent)
	}
}
