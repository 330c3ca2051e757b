package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Env             string `yaml:"env"`
		ReadTimeout     int    `yaml:"read_timeout"`     // секунды
		WriteTimeout    int    `yaml:"write_timeout"`    // секунды
		ShutdownTimeout int    `yaml:"shutdown_timeout"` // секунды
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	JWT struct {
		Secret    string `yaml:"secret"`
		Algorithm string `yaml:"algorithm"` // HS256, HS384, HS512
		TTL       int    `yaml:"ttl"`       // минуты
	} `yaml:"jwt"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3
		BasePath  string `yaml:"base_path"`  // For local storage
		Bucket    string `yaml:"bucket"`     // For S3
		Region    string `yaml:"region"`     // For S3
		AccessKey string `yaml:"access_key"` // For S3
		SecretKey string `yaml:"secret_key"` // For S3
		Endpoint  string `yaml:"endpoint"`   // For MinIO or custom S3
	} `yaml:"storage"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"` // Max file size in bytes
	} `yaml:"upload"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Log struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`

	Swagger struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"swagger"`
}

const (
	DefaultUploadDir   = "uploads"
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB
	DefaultAlgorithm   = "HS256"
	DefaultTokenTTL    = 30
	DefaultFrontendURL = "http://localhost:3000"
)

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Server.Env = "development"
	cfg.Server.ReadTimeout = 30
	cfg.Server.WriteTimeout = 60
	cfg.Server.ShutdownTimeout = 10

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5

	cfg.JWT.Algorithm = DefaultAlgorithm
	cfg.JWT.TTL = DefaultTokenTTL

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = DefaultUploadDir

	cfg.Upload.MaxSize = DefaultMaxFileSize

	cfg.CORS.AllowedOrigins = []string{DefaultFrontendURL}

	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "File Integrity System"

	cfg.Metrics.Enabled = true
	cfg.Swagger.Enabled = true

	return &cfg
}

// Load собирает конфигурацию: значения по умолчанию, затем config.yaml
// (если есть), затем .env и переменные окружения.
func Load() (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "SERVER_HOST")
	setString(&c.Server.Env, "SERVER_ENV")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.JWT.Algorithm, "JWT_ALGORITHM")
	setString(&c.Storage.Type, "STORAGE_TYPE")
	setString(&c.Storage.BasePath, "UPLOAD_DIR")
	setString(&c.Storage.Bucket, "S3_BUCKET")
	setString(&c.Storage.Region, "S3_REGION")
	setString(&c.Storage.AccessKey, "S3_ACCESS_KEY")
	setString(&c.Storage.SecretKey, "S3_SECRET_KEY")
	setString(&c.Storage.Endpoint, "S3_ENDPOINT")
	setString(&c.Log.File, "LOG_FILE")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setString(&c.Email.SMTPUsername, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Email.FromEmail, "SMTP_FROM")

	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.CORS.AllowedOrigins = mergeOrigins(v, DefaultFrontendURL)
	}

	if err := setInt(&c.Server.Port, "SERVER_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.JWT.TTL, "JWT_TTL_MINUTES"); err != nil {
		return err
	}
	if err := setInt(&c.Email.SMTPPort, "SMTP_PORT"); err != nil {
		return err
	}
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_FILE_SIZE: %w", err)
		}
		c.Upload.MaxSize = n
	}
	if err := setBool(&c.Email.Enabled, "EMAIL_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&c.Metrics.Enabled, "METRICS_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&c.Swagger.Enabled, "SWAGGER_ENABLED"); err != nil {
		return err
	}
	return nil
}

// Validate проверяет обязательные поля и допустимые значения.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	if !supportedAlgorithms[c.JWT.Algorithm] {
		return fmt.Errorf("unsupported jwt algorithm: %s", c.JWT.Algorithm)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive, got %d", c.JWT.TTL)
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload max size must be positive, got %d", c.Upload.MaxSize)
	}
	if c.Database.DSN == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			return errors.New("storage base path is required for local storage")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("storage bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func mergeOrigins(origins ...string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, o := range origins {
		for _, part := range strings.Split(o, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			result = append(result, part)
		}
	}
	return result
}
