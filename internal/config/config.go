// Package config loads client configuration: environment variables layered
// over an optional YAML file and .env file. Every setting has a usable
// default; optional services stay disabled when unconfigured.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HubURL   string `yaml:"hub_url"`
	HubToken string `yaml:"hub_token"`
	Role     string `yaml:"role"`

	CacheTTL time.Duration `yaml:"cache_ttl"`
	// RedisURL switches the tree cache from in-memory to redis when set.
	RedisURL string `yaml:"redis_url"`

	MeiliURL       string `yaml:"meili_url"`
	MeiliMasterKey string `yaml:"meili_master_key"`

	// S3 upload backend - empty endpoint means uploads go through the hub API.
	S3Endpoint   string `yaml:"s3_endpoint"`
	S3AccessKey  string `yaml:"s3_access_key"`
	S3SecretKey  string `yaml:"s3_secret_key"`
	S3Bucket     string `yaml:"s3_bucket"`
	S3PublicBase string `yaml:"s3_public_base"`
	S3UseSSL     bool   `yaml:"s3_use_ssl"`

	MirrorDir string `yaml:"mirror_dir"`
	DraftsDB  string `yaml:"drafts_db"`
}

// Load reads configuration: defaults, then the YAML file at path (if path is
// non-empty and the file exists), then a .env file, then real environment
// variables. Later layers win.
func Load(path string) (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		HubURL:    "http://localhost:8080/api",
		Role:      "viewer",
		CacheTTL:  5 * time.Minute,
		MirrorDir: "./data/mirror",
		DraftsDB:  "./data/drafts.db",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.HubURL = getenv("HUB_URL", cfg.HubURL)
	cfg.HubToken = getenv("HUB_TOKEN", cfg.HubToken)
	cfg.Role = getenv("HUB_ROLE", cfg.Role)
	cfg.CacheTTL = time.Duration(getenvInt("HUB_CACHE_TTL_SECONDS", int(cfg.CacheTTL/time.Second))) * time.Second
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.MeiliURL = getenv("MEILI_URL", cfg.MeiliURL)
	cfg.MeiliMasterKey = getenv("MEILI_MASTER_KEY", cfg.MeiliMasterKey)
	cfg.S3Endpoint = getenv("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKey = getenv("S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = getenv("S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3Bucket = getenv("S3_BUCKET", cfg.S3Bucket)
	cfg.S3PublicBase = getenv("S3_PUBLIC_BASE", cfg.S3PublicBase)
	cfg.MirrorDir = getenv("HUB_MIRROR_DIR", cfg.MirrorDir)
	cfg.DraftsDB = getenv("HUB_DRAFTS_DB", cfg.DraftsDB)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot work before anything connects.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HubURL, validation.Required, is.URL),
		validation.Field(&c.CacheTTL, validation.Min(time.Second)),
		validation.Field(&c.S3Bucket, validation.Required.When(c.S3Endpoint != "")),
	)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
