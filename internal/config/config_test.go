package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "http:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.ServerHostname != DefaultServerHostname {
		t.Errorf("server_hostname = %q, want %q", cfg.Engine.ServerHostname, DefaultServerHostname)
	}
	if cfg.Engine.IndexName != DefaultIndexName {
		t.Errorf("index_name = %q, want %q", cfg.Engine.IndexName, DefaultIndexName)
	}
	if cfg.Engine.MaxResults != DefaultMaxResults {
		t.Errorf("max_results = %d, want %d", cfg.Engine.MaxResults, DefaultMaxResults)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.HTTP.Port)
	}
}

func TestLoadFile_EnvExpansion(t *testing.T) {
	t.Setenv("ES_HOST", "http://es.internal:9200")
	body := `
engine:
  server_hostname: ${ES_HOST}
  index_name: ${ES_INDEX:-courses}
`
	cfg, err := LoadFile(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.ServerHostname != "http://es.internal:9200" {
		t.Errorf("server_hostname = %q", cfg.Engine.ServerHostname)
	}
	if cfg.Engine.IndexName != "courses" {
		t.Errorf("index_name = %q, want default courses", cfg.Engine.IndexName)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	if _, err := LoadFile(writeConfig(t, "engine: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 70000}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_IndexName(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}, Engine: EngineConfig{IndexName: "a/b"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for index name with slash")
	}
}

func TestValidate_HostAreasNeedAccessURL(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Host: HostConfig{Areas: []string{"mod_forum-post"}},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when areas are set without access_url")
	}

	cfg.Host.AccessURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative access_url")
	}

	cfg.Host.AccessURL = "https://lms.example.com/search/access"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
