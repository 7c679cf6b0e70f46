package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	ReconnectGrace time.Duration
	Dev            bool
}

// Load reads .env when present, then the environment. Every value has a
// working default so a bare `go run` just starts.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine

	cfg := Config{
		Addr:           getenv("ADDR", ":8080"),
		ReconnectGrace: time.Duration(getint("RECONNECT_GRACE_SEC", 60)) * time.Second,
		Dev:            getint("LOG_DEV", 0) != 0,
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
