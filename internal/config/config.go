package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	DB         DatabaseConfig
	Logging    LoggingConfig
	Weather    WeatherConfig
	Cache      CacheConfig
	Jobs       JobsConfig
	QuietHours QuietHoursConfig
	Firebase   FirebaseConfig
	Observers  ObserversConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

type WeatherConfig struct {
	BaseURL           string
	Timeout           time.Duration
	ChunkSize         int
	ChunkDelay        time.Duration
	CallDelay         time.Duration
	RequestsPerSecond float64
}

type CacheConfig struct {
	TTL              time.Duration
	Retention        time.Duration
	CleanupBatchSize int
}

type JobsConfig struct {
	RefreshInterval time.Duration
	DetectInterval  time.Duration
	CleanupInterval time.Duration
}

type QuietHoursConfig struct {
	Enabled  bool
	Start    string // "HH:MM" local time, inclusive
	End      string // "HH:MM" local time, exclusive
	Timezone string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

type ObserversConfig struct {
	StaleAfter time.Duration
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/thundercloud.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Weather: WeatherConfig{
			BaseURL:           getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com"),
			Timeout:           getEnvDuration("WEATHER_TIMEOUT", 30*time.Second),
			ChunkSize:         getEnvInt("WEATHER_CHUNK_SIZE", 100),
			ChunkDelay:        getEnvDuration("WEATHER_CHUNK_DELAY", 2*time.Second),
			CallDelay:         getEnvDuration("WEATHER_CALL_DELAY", 200*time.Millisecond),
			RequestsPerSecond: getEnvFloat("WEATHER_RPS", 2),
		},
		Cache: CacheConfig{
			TTL:              getEnvDuration("CACHE_TTL", 5*time.Minute),
			Retention:        getEnvDuration("CACHE_RETENTION", 2*time.Hour),
			CleanupBatchSize: getEnvInt("CACHE_CLEANUP_BATCH", 100),
		},
		Jobs: JobsConfig{
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
			DetectInterval:  getEnvDuration("DETECT_INTERVAL", 5*time.Minute),
			CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour),
		},
		QuietHours: QuietHoursConfig{
			Enabled:  getEnvBool("QUIET_HOURS_ENABLED", true),
			Start:    getEnv("QUIET_HOURS_START", "20:00"),
			End:      getEnv("QUIET_HOURS_END", "08:00"),
			Timezone: getEnv("QUIET_HOURS_TZ", "Asia/Tokyo"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Observers: ObserversConfig{
			StaleAfter: getEnvDuration("OBSERVER_STALE_AFTER", 24*time.Hour),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 100),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Weather.ChunkSize < 1 {
		return fmt.Errorf("weather chunk size must be at least 1")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.Cache.Retention < c.Cache.TTL {
		return fmt.Errorf("cache retention must not be shorter than the TTL")
	}
	if c.Jobs.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute")
	}
	if c.Jobs.DetectInterval < time.Minute {
		return fmt.Errorf("detect interval must be at least 1 minute")
	}

	if _, err := ParseClock(c.QuietHours.Start); err != nil {
		return fmt.Errorf("invalid quiet hours start: %w", err)
	}
	if _, err := ParseClock(c.QuietHours.End); err != nil {
		return fmt.Errorf("invalid quiet hours end: %w", err)
	}
	if _, err := time.LoadLocation(c.QuietHours.Timezone); err != nil {
		return fmt.Errorf("invalid quiet hours timezone: %w", err)
	}

	return nil
}

// ParseClock parses "HH:MM" into minutes past midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
