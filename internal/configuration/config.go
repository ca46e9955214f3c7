package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Server    ServerConfig
	Upload    UploadConfig
	Session   SessionConfig
	NATSURL   string
	CLAMAVURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
}

type ServerConfig struct {
	Port string
}

// UploadConfig caps the upload pipeline's validation step and names the
// object-store prefix all uploads live under.
type UploadConfig struct {
	MaxBytes     int64
	AllowedTypes []string
	Namespace    string
}

type SessionConfig struct {
	CookieName    string
	TTL           time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "vaultuser"),
			Password: getEnv("DB_PASSWORD", "vaultpassword"),
			DBName:   getEnv("DB_NAME", "filevault"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
			BucketName: getEnv("MINIO_BUCKET", "files"),
			UseSSL:     getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Upload: UploadConfig{
			MaxBytes:     getEnvInt64("UPLOAD_MAX_BYTES", 5<<20),
			AllowedTypes: getEnvList("UPLOAD_ALLOWED_TYPES", "image/jpeg,image/png,image/gif,application/pdf,text/plain"),
			Namespace:    getEnv("UPLOAD_NAMESPACE", "uploads"),
		},
		Session: SessionConfig{
			CookieName:    getEnv("SESSION_COOKIE", "vault_session"),
			TTL:           getEnvDuration("SESSION_TTL", 7*24*time.Hour),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 2*time.Minute),
		},
		NATSURL:   getEnv("NATS_URL", ""),
		CLAMAVURL: getEnv("CLAMAV_URL", ""),
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
