package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Sources     SourcesConfig
	Update      UpdateConfig
	Parse       ParseConfig
	Subscribers SubscribersConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SourcesConfig points at the exported timetable archives.
type SourcesConfig struct {
	GroupsURL   string
	TeachersURL string
	TempDir     string
}

// UpdateConfig drives the periodic update loop.
type UpdateConfig struct {
	Period       time.Duration
	FetchTimeout time.Duration
	RetryDelay   time.Duration
}

// ParseConfig carries the knobs of schedule reconstruction: reference
// cell colors for the lesson format and the fuzzy-match threshold for
// weekday headers.
type ParseConfig struct {
	FulltimeColor     string
	RemoteColor       string
	ColorMaxDistance  float64
	ColorExact        bool
	WeekdaySimilarity float64
}

// SubscribersConfig governs the notification hub.
type SubscribersConfig struct {
	TTL        time.Duration
	BufferSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sources = SourcesConfig{
		GroupsURL:   v.GetString("SOURCE_GROUPS_URL"),
		TeachersURL: v.GetString("SOURCE_TEACHERS_URL"),
		TempDir:     v.GetString("SOURCE_TEMP_DIR"),
	}

	cfg.Update = UpdateConfig{
		Period:       parseDuration(v.GetString("UPDATE_PERIOD"), 10*time.Minute),
		FetchTimeout: parseDuration(v.GetString("UPDATE_FETCH_TIMEOUT"), 90*time.Second),
		RetryDelay:   parseDuration(v.GetString("UPDATE_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Parse = ParseConfig{
		FulltimeColor:     v.GetString("PARSE_FULLTIME_COLOR"),
		RemoteColor:       v.GetString("PARSE_REMOTE_COLOR"),
		ColorMaxDistance:  v.GetFloat64("PARSE_COLOR_MAX_DISTANCE"),
		ColorExact:        v.GetBool("PARSE_COLOR_EXACT"),
		WeekdaySimilarity: v.GetFloat64("PARSE_WEEKDAY_SIMILARITY"),
	}

	cfg.Subscribers = SubscribersConfig{
		TTL:        parseDuration(v.GetString("SUBSCRIBER_TTL"), 3*time.Minute),
		BufferSize: v.GetInt("SUBSCRIBER_BUFFER_SIZE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ktmuscrap")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOURCE_GROUPS_URL", "")
	v.SetDefault("SOURCE_TEACHERS_URL", "")
	v.SetDefault("SOURCE_TEMP_DIR", "./data/temp")

	v.SetDefault("UPDATE_PERIOD", "10m")
	v.SetDefault("UPDATE_FETCH_TIMEOUT", "90s")
	v.SetDefault("UPDATE_RETRY_DELAY", "5s")

	// Google Sheets export palette: peach for in-person, pale blue
	// for remote lessons.
	v.SetDefault("PARSE_FULLTIME_COLOR", "#fce5cd")
	v.SetDefault("PARSE_REMOTE_COLOR", "#c9daf8")
	v.SetDefault("PARSE_COLOR_MAX_DISTANCE", 50.0)
	v.SetDefault("PARSE_COLOR_EXACT", false)
	v.SetDefault("PARSE_WEEKDAY_SIMILARITY", 0.6)

	v.SetDefault("SUBSCRIBER_TTL", "3m")
	v.SetDefault("SUBSCRIBER_BUFFER_SIZE", 16)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
