package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Content
	DataPath           string // JSON document holding profile + projects
	DefaultProfilePath string // Markdown seed for the default document (frontmatter = profile, body = bio)

	// Uploads
	UploadDir       string
	UploadURLPrefix string
	UploadMaxBytes  int64 // 0 = unlimited

	// Upload ledger database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Editing
	EditPIN     string
	AuthEnforce bool // false = mutating endpoints stay open, only the UI is gated
	JWTSecret   string
	JWTExpiry   time.Duration

	// Notifications
	OwnerEmail   string
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Upload mirror (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.), disabled when S3Bucket is empty
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Portfolio"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Content
		DataPath:           envString("DATA_PATH", "data/profile.json"),
		DefaultProfilePath: envString("DEFAULT_PROFILE_PATH", "content/profile.md"),

		// Uploads
		UploadDir:       envString("UPLOAD_DIR", "public/uploads"),
		UploadURLPrefix: envString("UPLOAD_URL_PREFIX", "/uploads"),
		UploadMaxBytes:  envInt64("UPLOAD_MAX_BYTES", 0),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/folio.db?_pragma=journal_mode(WAL)"),

		// Editing
		EditPIN:     envRequired("EDIT_PIN"),
		AuthEnforce: envBool("AUTH_ENFORCE", true),
		JWTSecret:   envRequired("JWT_SECRET"),
		JWTExpiry:   envDuration("JWT_EXPIRY", 12*time.Hour),

		// Notifications (RESEND_API_KEY optional: without it notifications are logged)
		OwnerEmail:   envString("OWNER_EMAIL", ""),
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Upload mirror
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	validate(cfg)

	return cfg
}

// validate stops startup on settings the server cannot run with.
func validate(cfg *Config) {
	if !ValidPIN(cfg.EditPIN) {
		slog.Error("EDIT_PIN must be exactly 4 digits")
		os.Exit(1)
	}
	if cfg.IsProduction() && !cfg.AuthEnforce {
		slog.Warn("AUTH_ENFORCE=false in production: profile and upload endpoints accept anonymous writes")
	}
}

// ValidPIN reports whether pin is a 4-digit numeric string.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MirrorEnabled reports whether uploads are copied to S3.
func (c *Config) MirrorEnabled() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:         c.AppName,
		AppEnv:          c.AppEnv,
		AppURL:          c.AppURL,
		Port:            c.Port,
		UploadURLPrefix: c.UploadURLPrefix,
		UploadMaxBytes:  c.UploadMaxBytes,
		AuthEnforce:     c.AuthEnforce,
	}
}
