package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	SeedCSV   = "csv"
	SeedMySQL = "mysql"
	SeedNone  = "none"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	SeedSource     string
	DatasetPath    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	WriteRPS       float64
	WriteBurst     int
	Workers        int
	BatchSize      int
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env present but unreadable")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number; using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", portAddr(env("PORT", "8000"))),
		MetricsAddr:    env("METRICS_ADDR", ""),
		SeedSource:     strings.ToLower(env("SEED_SOURCE", SeedCSV)),
		DatasetPath:    env("DATASET_PATH", "data/reviews.csv"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=Local"),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 3600)) * time.Second,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		MaxBodyBytes:   int64(atoi("MAX_BODY_BYTES", 1<<20)),
		WriteRPS:       atof("WRITE_RPS", 0),
		WriteBurst:     atoi("WRITE_BURST", 40),
		Workers:        atoi("INGEST_WORKERS", 4),
		BatchSize:      atoi("INGEST_BATCH_SIZE", 200),
	}
	switch c.SeedSource {
	case SeedCSV, SeedMySQL, SeedNone:
	default:
		log.Warn().Str("seed_source", c.SeedSource).Msg("unknown SEED_SOURCE; falling back to csv")
		c.SeedSource = SeedCSV
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// portAddr accepts "8000", ":8000" or "host:8000".
func portAddr(port string) string {
	port = strings.TrimSpace(port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
