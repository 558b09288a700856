package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	S3        S3Config
	Admin     AdminConfig
	Mail      MailConfig
	Recaptcha RecaptchaConfig
	Geocode   GeocodeConfig
	Google    GoogleConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	SiteURL     string // public frontend, used in emails and redirects
	APIURL      string // public base URL of this API
	Timezone    string // default timezone for open-now when a store has none
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	MagicLinkExpiry    time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig is optional. Rate limiting and the geocode cache are skipped when Enabled is false.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type AdminConfig struct {
	AllowedEmail string
}

type MailConfig struct {
	ResendAPIKey string
	BaseURL      string
	From         string
	AdminNotify  string
	ContactTo    string
}

type RecaptchaConfig struct {
	SecretKey string
	VerifyURL string
}

type GeocodeConfig struct {
	BaseURL   string
	UserAgent string
	CacheTTL  time.Duration
}

type GoogleConfig struct {
	PlacesAPIKey string
}

type RateLimitConfig struct {
	Window         time.Duration
	WritesPerIP    int
	MagicLinkPerIP int
}

type SchedulerConfig struct {
	RatingRecomputeSpec string
}

type SecurityConfig struct {
	IPHashKey string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			SiteURL:     strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
			APIURL:      strings.TrimRight(getEnv("API_URL", "http://localhost:8080"), "/"),
			Timezone:    getEnv("DEFAULT_TIMEZONE", "America/New_York"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "lfs"),
			Password: getEnv("DB_PASSWORD", "lfs"),
			DBName:   getEnv("DB_NAME", "lfsdirectory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "1h"), time.Hour),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
			MagicLinkExpiry:    parseDuration(getEnv("JWT_MAGIC_LINK_EXPIRY", "15m"), 15*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "lfsdirectory-photos"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Admin: AdminConfig{
			AllowedEmail: strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			BaseURL:      getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			From:         getEnv("MAIL_FROM", "LFSDirectory <noreply@lfsdirectory.com>"),
			AdminNotify:  getEnv("ADMIN_NOTIFY_EMAIL", ""),
			ContactTo:    getEnv("CONTACT_EMAIL_TO", ""),
		},
		Recaptcha: RecaptchaConfig{
			SecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		},
		Geocode: GeocodeConfig{
			BaseURL:   getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODE_USER_AGENT", "LFSDirectory/1.0 (lfsdirectory.com)"),
			CacheTTL:  parseDuration(getEnv("GEOCODE_CACHE_TTL", "24h"), 24*time.Hour),
		},
		Google: GoogleConfig{
			PlacesAPIKey: getEnv("GOOGLE_PLACES_API_KEY", ""),
		},
		RateLimit: RateLimitConfig{
			Window:         parseDuration(getEnv("RATE_LIMIT_WINDOW", "1h"), time.Hour),
			WritesPerIP:    parseInt(getEnv("RATE_LIMIT_WRITES_PER_IP", "20"), 20),
			MagicLinkPerIP: parseInt(getEnv("RATE_LIMIT_MAGIC_LINK_PER_IP", "5"), 5),
		},
		Scheduler: SchedulerConfig{
			RatingRecomputeSpec: getEnv("RATING_RECOMPUTE_CRON", "0 3 * * *"),
		},
		Security: SecurityConfig{
			IPHashKey: getEnv("IP_HASH_KEY", "change-me-ip-hash-key"),
		},
	}

	if cfg.Admin.AllowedEmail == "" {
		log.Println("ADMIN_EMAIL is not set, admin login is disabled")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns host:port for the Redis client.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction reports whether the server runs with production defaults.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
