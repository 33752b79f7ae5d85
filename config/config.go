package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	LogLevel    string
	DBUrl       string
	AutoMigrate bool
	FrontendURL string
	// Base URL used to build public links to locally stored uploads
	PublicBaseURL string
	// JWT
	JWTSecret    string
	JWTExpiresIn time.Duration
	// Upload storage
	StorageDriver  string // "local" or "s3"
	UploadDir      string
	MaxUploadMB    int
	S3Provider     string
	S3AccessKeyID  string
	S3SecretKey    string
	S3Region       string
	S3Bucket       string
	S3PublicURL    string
	WasabiEndpoint string
	ClamAVAddress  string // empty disables virus scanning
	// Redis
	RedisURL      string
	RedisPassword string
	// Rate Limiting
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitAuthThreshold   int
	RateLimitUploadThreshold int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		LogLevel:      getEnv("LOG_LEVEL", "debug"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		AutoMigrate:   getEnvBool("AUTO_MIGRATE", true),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiresIn:  getEnvDuration("JWT_EXPIRES_IN", time.Hour),
		// Storage
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 5),
		S3Provider:     getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:  getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3PublicURL:    strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
		WasabiEndpoint: getEnv("WASABI_ENDPOINT", ""),
		ClamAVAddress:  getEnv("CLAMAV_ADDRESS", ""),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitAuthThreshold:   getEnvInt("RATE_LIMIT_AUTH_THRESHOLD", 10),
		RateLimitUploadThreshold: getEnvInt("RATE_LIMIT_UPLOAD_THRESHOLD", 10),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET not configured. Using an insecure development secret.")
		cfg.JWTSecret = "dev-only-insecure-secret"
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and token revocation will use in-memory fallback.")
	}

	return cfg, nil
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90m") and the bare-suffix forms
// used by jsonwebtoken ("1h", "7d").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if strings.HasSuffix(value, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(value, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
