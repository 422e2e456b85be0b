package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	AppTitle      string
	AllowedCORS   []string

	// JWT / refresh token
	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration
	EmailVerifyTokenExpiry     time.Duration
	PasswordResetTokenExpiry   time.Duration

	// Redis cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SMTP mail
	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
	MailFromName string
	MailSSL      bool

	// Cloudinary avatar storage
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Analytics
	PosthogAPIKey string

	// External OAuth providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("APP_TITLE", "UContacts REST API Service")
	viper.SetDefault("ALLOWED_CORS", []string{"*"})
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "15m")
	viper.SetDefault("JWT_ISSUER", "ucontacts-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("EMAIL_VERIFY_TOKEN_EXPIRY", "168h")
	viper.SetDefault("PASSWORD_RESET_TOKEN_EXPIRY", "15m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MAIL_HOST", "")
	viper.SetDefault("MAIL_PORT", 465)
	viper.SetDefault("MAIL_USERNAME", "")
	viper.SetDefault("MAIL_PASSWORD", "")
	viper.SetDefault("MAIL_FROM", "")
	viper.SetDefault("MAIL_FROM_NAME", "UContacts")
	viper.SetDefault("MAIL_SSL", true)
	viper.SetDefault("CLOUDINARY_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.AppTitle = viper.GetString("APP_TITLE")
	cfg.AllowedCORS = viper.GetStringSlice("ALLOWED_CORS")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.JWTExpiryDuration = parseDurationOr("JWT_EXPIRY_DURATION", 15*time.Minute)
	cfg.RefreshTokenExpiryDuration = parseDurationOr("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.EmailVerifyTokenExpiry = parseDurationOr("EMAIL_VERIFY_TOKEN_EXPIRY", 7*24*time.Hour)
	cfg.PasswordResetTokenExpiry = parseDurationOr("PASSWORD_RESET_TOKEN_EXPIRY", 15*time.Minute)

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.MailHost = viper.GetString("MAIL_HOST")
	cfg.MailPort = viper.GetInt("MAIL_PORT")
	cfg.MailUsername = viper.GetString("MAIL_USERNAME")
	cfg.MailPassword = viper.GetString("MAIL_PASSWORD")
	cfg.MailFrom = viper.GetString("MAIL_FROM")
	cfg.MailFromName = viper.GetString("MAIL_FROM_NAME")
	cfg.MailSSL = viper.GetBool("MAIL_SSL")
	if cfg.MailHost == "" {
		log.Println("Warning: MAIL_HOST not set. Verification and reset mail will not be sent.")
	}

	cfg.CloudinaryName = viper.GetString("CLOUDINARY_NAME")
	cfg.CloudinaryAPIKey = viper.GetString("CLOUDINARY_API_KEY")
	cfg.CloudinaryAPISecret = viper.GetString("CLOUDINARY_API_SECRET")
	if cfg.CloudinaryName == "" {
		log.Println("Warning: CLOUDINARY_NAME not set. Avatar upload will not function.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
