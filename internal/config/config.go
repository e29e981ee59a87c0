package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultCluster = "cluster0.wj0pjif.mongodb.net"
	defaultDBName  = "vegistDB"
)

var defaultOrigins = []string{
	"https://vegist-fdd93.web.app",
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
}

type Config struct {
	HTTPPort string
	LogLevel slog.Level

	StoreDriver       string
	MongoURI          string
	DBUser            string
	DBPass            string
	DBCluster         string
	DBName            string
	EnsureIndexes     bool
	ConnectAttempts   int
	ConnectRetryDelay time.Duration
	StoreOpTimeout    time.Duration

	RedisAddr         string
	CatalogCacheTTL   time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration

	AllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load env file", "error", err)
	}
	return NewConfig()
}

func NewConfig() *Config {
	return &Config{
		HTTPPort: getEnv("PORT", "5000"),
		LogLevel: getLevel("LOG_LEVEL", slog.LevelInfo),

		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:          getEnv("MONGO_URI", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPass:            getEnv("DB_PASS", ""),
		DBCluster:         getEnv("DB_CLUSTER", defaultCluster),
		DBName:            getEnv("DB_NAME", defaultDBName),
		EnsureIndexes:     getBool("MONGO_ENSURE_INDEXES", false),
		ConnectAttempts:   getInt("MONGO_CONNECT_ATTEMPTS", 3),
		ConnectRetryDelay: getDuration("MONGO_CONNECT_RETRY_DELAY", 2*time.Second),
		StoreOpTimeout:    getDuration("STORE_OP_TIMEOUT", 10*time.Second),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		CatalogCacheTTL:   getDuration("CATALOG_CACHE_TTL", 30*time.Second),
		RateLimitRequests: getInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", 60*time.Second),

		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", defaultOrigins),
	}
}

// StoreURI returns MONGO_URI when set, otherwise an Atlas SRV URI built
// from the configured credentials and cluster host.
func (c *Config) StoreURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     c.DBCluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=Cluster0",
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPass)
	}
	return u.String()
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}

func getList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
