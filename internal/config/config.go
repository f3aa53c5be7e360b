package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "NOSSODAY_"

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"

	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Storage   StorageConfig   `yaml:"storage"`
	Payment   PaymentConfig   `yaml:"payment"`
	Cache     CacheConfig     `yaml:"cache"`
	Clock     ClockConfig     `yaml:"clock"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// PublicURL is the externally reachable base of the site, used in
	// checkout redirects and QR codes.
	PublicURL      string        `yaml:"public_url"`
	StreamInterval time.Duration `yaml:"stream_interval"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, appends logs to this file as well.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	Mode           string        `yaml:"mode"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

type StorageConfig struct {
	Backend   string   `yaml:"backend"`
	Dir       string   `yaml:"dir"`
	URLPrefix string   `yaml:"url_prefix"`
	S3        S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	PublicURL       string `yaml:"public_url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type PaymentConfig struct {
	StripeSecretKey string `yaml:"stripe_secret_key"`
	StripeBaseURL   string `yaml:"stripe_base_url"`
	MaxRetries      int64  `yaml:"max_retries"`
	// Prices maps plan names (BASIC, PRO) to Stripe price IDs.
	Prices map[string]string `yaml:"prices"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type ClockConfig struct {
	// Location names the IANA zone anniversaries are read in. Empty
	// means the host's local zone.
	Location string `yaml:"location"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			PublicURL:      "http://localhost:8080",
			StreamInterval: time.Second,
			MaxUploadBytes: 64 << 20,
		},
		DB: DBConfig{
			Path: "nossoday.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode:           TransportHTTP,
			SessionTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			Backend:   StorageLocal,
			Dir:       "uploads",
			URLPrefix: "/uploads",
		},
		Payment: PaymentConfig{
			MaxRetries: 2,
			Prices: map[string]string{
				"BASIC": "price_1PyhQJIJ8yWIAToiES4fDU7X",
				"PRO":   "price_1PzlfwIJ8yWIAToiDxWmmmkV",
			},
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(envPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("invalid transport mode %q (want %s or %s)", c.Transport.Mode, TransportHTTP, TransportStdio)
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the local backend")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid storage backend %q (want %s or %s)", c.Storage.Backend, StorageLocal, StorageS3)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Clock.Location != "" {
		if _, err := time.LoadLocation(c.Clock.Location); err != nil {
			return fmt.Errorf("invalid clock location: %w", err)
		}
	}
	return nil
}

// Location resolves the configured clock location.
func (c Config) Location() *time.Location {
	if c.Clock.Location == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Clock.Location)
	if err != nil {
		return time.Local
	}
	return loc
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "SERVER_HOST")
	if err := setInt(&cfg.Server.Port, "SERVER_PORT"); err != nil {
		return err
	}
	setString(&cfg.Server.PublicURL, "PUBLIC_URL")
	if err := setDuration(&cfg.Server.StreamInterval, "STREAM_INTERVAL"); err != nil {
		return err
	}
	if err := setInt64(&cfg.Server.MaxUploadBytes, "MAX_UPLOAD_BYTES"); err != nil {
		return err
	}

	setString(&cfg.DB.Path, "DB_PATH")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Path, "LOG_PATH")

	setString(&cfg.Transport.Mode, "TRANSPORT_MODE")
	if err := setDuration(&cfg.Transport.SessionTimeout, "SESSION_TIMEOUT"); err != nil {
		return err
	}

	setString(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setString(&cfg.Storage.Dir, "STORAGE_DIR")
	setString(&cfg.Storage.URLPrefix, "STORAGE_URL_PREFIX")
	setString(&cfg.Storage.S3.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.S3.Region, "S3_REGION")
	setString(&cfg.Storage.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.S3.Prefix, "S3_PREFIX")
	setString(&cfg.Storage.S3.PublicURL, "S3_PUBLIC_URL")
	setString(&cfg.Storage.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Storage.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")

	setString(&cfg.Payment.StripeSecretKey, "STRIPE_SECRET_KEY")
	setString(&cfg.Payment.StripeBaseURL, "STRIPE_BASE_URL")
	if err := setInt64(&cfg.Payment.MaxRetries, "STRIPE_MAX_RETRIES"); err != nil {
		return err
	}
	for plan := range cfg.Payment.Prices {
		if v := os.Getenv(envPrefix + "PRICE_" + strings.ToUpper(plan)); v != "" {
			cfg.Payment.Prices[plan] = v
		}
	}

	if err := setDuration(&cfg.Cache.TTL, "CACHE_TTL"); err != nil {
		return err
	}
	setString(&cfg.Clock.Location, "CLOCK_LOCATION")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	*dst = d
	return nil
}
