// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	LogLevel   string
	LogConsole bool

	DatabaseURL string

	// CacheBackend selects the query-cache store: memory (default), lru
	// or redis.
	CacheBackend string
	CacheTTL     time.Duration
	CacheLRUSize int
	RedisAddr    string
}

func FromEnv() Config {
	return Config{
		Addr:       getenv("ADDR", ":8080"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogConsole: getbool("LOG_CONSOLE", false),

		DatabaseURL: getenv("DATABASE_URL", ""),

		CacheBackend: getenv("CACHE_BACKEND", "memory"),
		CacheTTL:     getduration("CACHE_TTL", 300*time.Second),
		CacheLRUSize: getint("CACHE_LRU_SIZE", 0),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
