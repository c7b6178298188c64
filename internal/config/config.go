package config

import (
	"os"
	"strings"
)

// Store drivers selectable via STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port string
	Env  string

	StoreDriver   string
	RedisAddr     string
	RedisPassword string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "8080"),
		Env:            getenv("ENV", "development"),
		StoreDriver:    getenv("STORE_DRIVER", DriverMemory),
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "tasklight"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "tasklight-snapshots"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
}

// Production reports whether this is a production-like deployment; it
// controls the session cookie Secure attribute.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// ArchiveConfigured reports whether snapshot archiving should be wired up.
func (c *Config) ArchiveConfigured() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
