package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AllowedOrigins []string // CORS allowed origins

	OTPStore       string // memory | redis | dynamo | postgres
	RedisURL       string
	PostgresURL    string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	MailProvider    string // smtp | resend
	MailFrom        string
	MailSendTimeout time.Duration
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	// SMTPInsecureSkipVerify disables certificate checks toward the relay. Off unless set explicitly.
	SMTPInsecureSkipVerify bool
	ResendAPIKey           string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPCodes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	user := getEnv("EMAIL_USER", "")
	return &Config{
		AppPort:        getEnv("APP_PORT", "4000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		OTPStore:       getEnv("OTP_STORE", "memory"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		PostgresURL:    getEnv("POSTGRES_URL", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			OTPCodes: getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
		},

		MailProvider:           getEnv("MAIL_PROVIDER", "smtp"),
		MailFrom:               getEnv("EMAIL_FROM", user),
		MailSendTimeout:        getEnvDuration("MAIL_SEND_TIMEOUT", 30*time.Second),
		SMTPHost:               getEnv("EMAIL_HOST", "localhost"),
		SMTPPort:               getEnv("EMAIL_PORT", "1025"),
		SMTPUsername:           user,
		SMTPPassword:           getEnv("EMAIL_PASSWORD", ""),
		SMTPInsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
