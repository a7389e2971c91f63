package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HubURL != "http://localhost:8080/api" {
		t.Errorf("unexpected default hub url %q", cfg.HubURL)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("unexpected default ttl %v", cfg.CacheTTL)
	}
	if cfg.Role != "viewer" {
		t.Errorf("unexpected default role %q", cfg.Role)
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("HUB_URL", "https://hub.example/api")
	t.Setenv("HUB_CACHE_TTL_SECONDS", "60")
	t.Setenv("HUB_ROLE", "moderator")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HubURL != "https://hub.example/api" {
		t.Errorf("env override lost: %q", cfg.HubURL)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("ttl override lost: %v", cfg.CacheTTL)
	}
	if cfg.Role != "moderator" {
		t.Errorf("role override lost: %q", cfg.Role)
	}
}

func TestYAMLFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.yaml")
	content := "hub_url: https://yaml.example/api\nmirror_dir: /tmp/mirror\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HubURL != "https://yaml.example/api" || cfg.MirrorDir != "/tmp/mirror" {
		t.Errorf("yaml values lost: %+v", cfg)
	}

	t.Setenv("HUB_URL", "https://env.example/api")
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HubURL != "https://env.example/api" {
		t.Errorf("env must win over yaml, got %q", cfg.HubURL)
	}
}

func TestMissingYAMLFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("missing config file must not fail: %v", err)
	}
}

func TestInvalidHubURLRejected(t *testing.T) {
	t.Setenv("HUB_URL", "not a url")
	if _, err := Load(""); err == nil {
		t.Error("expected validation error for malformed hub url")
	}
}

func TestS3RequiresBucket(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "minio.local:9000")
	if _, err := Load(""); err == nil {
		t.Error("s3 endpoint without bucket must fail validation")
	}
	t.Setenv("S3_BUCKET", "kb-files")
	if _, err := Load(""); err != nil {
		t.Errorf("endpoint plus bucket must validate: %v", err)
	}
}
