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

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Policy   PolicyConfig
	Events   EventsConfig
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

// JWTConfig describes how access tokens minted by the identity provider are verified.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig sets per read-model TTLs.
type CacheConfig struct {
	Enabled        bool
	LeaderboardTTL time.Duration
	StatsTTL       time.Duration
	GalleryTTL     time.Duration
	DogsTTL        time.Duration
}

// StorageConfig selects the object store used for gallery images and avatars.
type StorageConfig struct {
	Driver           string
	LocalDir         string
	PublicBaseURL    string
	Bucket           string
	Region           string
	Endpoint         string
	AccessKeyID      string
	SecretAccessKey  string
	UsePathStyle     bool
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	PreviewSecret    string
	PreviewTTL       time.Duration
}

// PolicyConfig holds the tunable community rules.
type PolicyConfig struct {
	UsernameCooldown  time.Duration
	BirthdateCooldown time.Duration
	LeaderboardLimit  int
}

// EventsConfig sizes the in-process change event queue.
type EventsConfig struct {
	Workers int
	Buffer  int
	Retries int
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
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

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: v.GetString("JWT_AUDIENCE"),
		Leeway:   parseDuration(v.GetString("JWT_LEEWAY"), 30*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:        v.GetBool("ENABLE_CACHE"),
		LeaderboardTTL: parseDuration(v.GetString("LEADERBOARD_CACHE_TTL"), time.Minute),
		StatsTTL:       parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
		GalleryTTL:     parseDuration(v.GetString("GALLERY_CACHE_TTL"), 2*time.Minute),
		DogsTTL:        parseDuration(v.GetString("DOGS_CACHE_TTL"), 2*time.Minute),
	}

	maxUpload := v.GetInt64("STORAGE_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Storage = StorageConfig{
		Driver:           strings.ToLower(v.GetString("STORAGE_DRIVER")),
		LocalDir:         v.GetString("STORAGE_LOCAL_DIR"),
		PublicBaseURL:    strings.TrimRight(v.GetString("STORAGE_PUBLIC_BASE_URL"), "/"),
		Bucket:           v.GetString("S3_BUCKET"),
		Region:           v.GetString("S3_REGION"),
		Endpoint:         v.GetString("S3_ENDPOINT"),
		AccessKeyID:      v.GetString("S3_ACCESS_KEY_ID"),
		SecretAccessKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
		UsePathStyle:     v.GetBool("S3_USE_PATH_STYLE"),
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("STORAGE_ALLOWED_MIME_TYPES")),
		PreviewSecret:    v.GetString("STORAGE_PREVIEW_SECRET"),
		PreviewTTL:       parseDuration(v.GetString("STORAGE_PREVIEW_TTL"), 15*time.Minute),
	}

	leaderboardLimit := v.GetInt("LEADERBOARD_LIMIT")
	if leaderboardLimit <= 0 {
		leaderboardLimit = 20
	}
	cfg.Policy = PolicyConfig{
		UsernameCooldown:  parseDuration(v.GetString("USERNAME_COOLDOWN"), 30*24*time.Hour),
		BirthdateCooldown: parseDuration(v.GetString("BIRTHDATE_COOLDOWN"), 7*24*time.Hour),
		LeaderboardLimit:  leaderboardLimit,
	}

	cfg.Events = EventsConfig{
		Workers: v.GetInt("EVENTS_WORKERS"),
		Buffer:  v.GetInt("EVENTS_BUFFER"),
		Retries: v.GetInt("EVENTS_RETRIES"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_paws")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "authenticated")
	v.SetDefault("JWT_LEEWAY", "30s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("LEADERBOARD_CACHE_TTL", "1m")
	v.SetDefault("STATS_CACHE_TTL", "5m")
	v.SetDefault("GALLERY_CACHE_TTL", "2m")
	v.SetDefault("DOGS_CACHE_TTL", "2m")

	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("STORAGE_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("STORAGE_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/webp,image/gif")
	v.SetDefault("STORAGE_PREVIEW_SECRET", "dev_preview_secret")
	v.SetDefault("STORAGE_PREVIEW_TTL", "15m")

	v.SetDefault("USERNAME_COOLDOWN", "720h")
	v.SetDefault("BIRTHDATE_COOLDOWN", "168h")
	v.SetDefault("LEADERBOARD_LIMIT", 20)

	v.SetDefault("EVENTS_WORKERS", 2)
	v.SetDefault("EVENTS_BUFFER", 128)
	v.SetDefault("EVENTS_RETRIES", 2)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
