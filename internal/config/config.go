package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "mediavault.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "720h" // 30 days
	defaultOTPTTL        = "10m"
	defaultUploadDir     = "./uploads"
	defaultOrigin        = "http://localhost:3000"
	defaultMaxUpload     = 10 << 20  // single file
	defaultMaxMultiSize  = 5 << 20   // per file in a multi upload
	defaultMaxMultiFiles = 5
	defaultMaxLarge      = 100 << 20
)

// Config is resolved once at process start and passed into the components
// that need it. Nothing reads the environment after startup.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	OTPTTL    time.Duration
	AdminCode string

	UploadDir     string
	MaxUploadSize int64
	MaxMultiSize  int64
	MaxMultiFiles int
	MaxLargeSize  int64

	Origin string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		AdminCode:   strings.TrimSpace(os.Getenv("ADMIN_REGISTRATION_CODE")),
		UploadDir:   getEnv("UPLOAD_DIR", defaultUploadDir),
		Origin:      getEnv("ORIGIN", defaultOrigin),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
	}

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.OTPTTL, err = parseDurationEnv("OTP_TTL", defaultOTPTTL)
	if err != nil {
		return nil, err
	}

	cfg.MaxUploadSize, err = parseSizeEnv("MAX_UPLOAD_SIZE", defaultMaxUpload)
	if err != nil {
		return nil, err
	}
	cfg.MaxMultiSize, err = parseSizeEnv("MAX_MULTI_UPLOAD_SIZE", defaultMaxMultiSize)
	if err != nil {
		return nil, err
	}
	cfg.MaxLargeSize, err = parseSizeEnv("MAX_LARGE_UPLOAD_SIZE", defaultMaxLarge)
	if err != nil {
		return nil, err
	}
	cfg.MaxMultiFiles = defaultMaxMultiFiles
	if raw := os.Getenv("MAX_MULTI_UPLOAD_FILES"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid MAX_MULTI_UPLOAD_FILES=%q", raw)
		}
		cfg.MaxMultiFiles = n
	}

	return cfg, nil
}

// SMTPConfigured reports whether a real mail transport is available; without
// it the console mailer is used.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != ""
}

func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s=%q: %w", key, raw, err)
	}
	return d, nil
}

func parseSizeEnv(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: invalid %s=%q", key, raw)
	}
	return n, nil
}
