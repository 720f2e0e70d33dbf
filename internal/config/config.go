package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// движок сопоставления
	Workers        int // параллельная обработка блоков
	DupThreshold   int // порог fuzzy-дублей по умолчанию (0..100)
	MatchThreshold int // порог cross-source по умолчанию (0..100)
	DefaultWeight  int // вес колонки, если клиент его не передал (1..10)
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           port,
		AllowOrigins:   origins,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		MaxUploadMB:    mb,
		LogFile:        getenv("LOG_FILE", "logs/match-service.log"),
		Workers:        clamp(getint("MATCH_WORKERS", runtime.NumCPU()), 1, 256),
		DupThreshold:   clamp(getint("DUP_THRESHOLD", 90), 0, 100),
		MatchThreshold: clamp(getint("MATCH_THRESHOLD", 85), 0, 100),
		DefaultWeight:  clamp(getint("DEFAULT_WEIGHT", 5), 1, 10),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
