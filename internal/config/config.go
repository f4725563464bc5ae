package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	MusicRoot   string
	CachePrefix string

	CacheBackend   string
	CacheDir       string
	CacheDBPath    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioPrefix    string
	MinioUseSSL    bool

	FpcalcPath    string
	FpcalcLength  int
	FpcalcTimeout time.Duration
	ScanWorkers   int

	APIPort string

	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

var validBackends = map[string]bool{"file": true, "sqlite": true, "redis": true, "minio": true}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it is loaded first;
// environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		MusicRoot:      getEnv("MUSIC_ROOT", ""),
		CachePrefix:    getEnv("CACHE_PREFIX", DefaultPrefix()),
		CacheBackend:   strings.ToLower(getEnv("CACHE_BACKEND", "file")),
		CacheDir:       getEnv("CACHE_DIR", defaultCacheDir()),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "song-deduper"),
		MinioRegion:    getEnv("MINIO_REGION", ""),
		MinioPrefix:    getEnv("MINIO_PREFIX", ""),
		FpcalcPath:     getEnv("FPCALC_PATH", "fpcalc"),
		APIPort:        getEnv("API_PORT", "9000"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogFile:        getEnv("LOG_FILE", ""),
	}
	cfg.CacheDBPath = getEnv("CACHE_DB_PATH", filepath.Join(cfg.CacheDir, "cache.db"))

	if !validBackends[cfg.CacheBackend] {
		return nil, fmt.Errorf("CACHE_BACKEND must be one of file, sqlite, redis, minio, got %q", cfg.CacheBackend)
	}

	ints := []struct {
		key  string
		def  int
		min  int
		dest *int
	}{
		{"REDIS_DB", 0, 0, &cfg.RedisDB},
		{"FPCALC_LENGTH", 120, 1, &cfg.FpcalcLength},
		{"SCAN_WORKERS", 1, 1, &cfg.ScanWorkers},
		{"LOG_MAX_SIZE_MB", 10, 1, &cfg.LogMaxSizeMB},
		{"LOG_MAX_BACKUPS", 3, 0, &cfg.LogMaxBackups},
		{"LOG_MAX_AGE_DAYS", 28, 0, &cfg.LogMaxAgeDays},
	}
	for _, it := range ints {
		v, err := getEnvInt(it.key, it.def)
		if err != nil {
			return nil, err
		}
		if v < it.min {
			return nil, fmt.Errorf("%s must be at least %d", it.key, it.min)
		}
		*it.dest = v
	}

	timeout, err := time.ParseDuration(getEnv("FPCALC_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("FPCALC_TIMEOUT must be a valid duration: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("FPCALC_TIMEOUT must be greater than 0")
	}
	cfg.FpcalcTimeout = timeout

	useSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		return nil, fmt.Errorf("MINIO_USE_SSL must be a boolean: %w", err)
	}
	cfg.MinioUseSSL = useSSL

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.CacheBackend == "minio" {
		if cfg.MinioEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required when CACHE_BACKEND=minio")
		}
		if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
			return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when CACHE_BACKEND=minio")
		}
	}

	return cfg, nil
}

// DefaultPrefix returns the cache prefix for this host's OS, so a library
// shared between a Mac and a PC keeps one cache per machine.
func DefaultPrefix() string {
	if runtime.GOOS == "darwin" {
		return "mac_"
	}
	return "pc_"
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "song-deduper")
	}
	return "./data"
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}
