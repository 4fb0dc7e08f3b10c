package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreFirebase = "firebase"

	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

// Config holds everything the server reads from the environment.
type Config struct {
	// Server
	Port           string
	GinMode        string
	RequestTimeout time.Duration
	PagesDir       string
	CORSOrigins    []string
	TrustedProxies []string

	// Session
	SessionSecret      string
	SessionTTL         time.Duration
	CookieSecure       bool
	LoginRatePerMinute int

	// Logging
	LogFile  string
	LogLevel string

	// Document store
	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBTimezone  string
	MongoURI    string
	MongoDB     string

	// Firebase
	FirebaseCredentialsFile string
	FirebaseDatabaseURL     string
	FirebaseProjectID       string
	FirebaseAPIKey          string
	IdentityDriver          string

	// Twilio
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	NotifyConcurrency int
	TrackingInterval  time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on env vars")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		PagesDir:       getEnv("PAGES_DIR", "./templates"),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 31*24*time.Hour),
		CookieSecure:       getEnvAsBool("COOKIE_SECURE", true),
		LoginRatePerMinute: getEnvAsInt("LOGIN_RATE_PER_MINUTE", 5),

		LogFile:  getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreFirebase)),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "password"),
		DBName:      getEnv("DB_NAME", "olstar"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		DBTimezone:  getEnv("DB_TIMEZONE", "UTC"),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "olstar"),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseDatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:          getEnv("FIREBASE_API_KEY", ""),
		IdentityDriver:          strings.ToLower(getEnv("IDENTITY_DRIVER", IdentityFirebase)),

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		NotifyConcurrency: getEnvAsInt("NOTIFY_CONCURRENCY", 4),
		TrackingInterval:  getEnvAsDuration("TRACKING_PUSH_INTERVAL", 5*time.Second),
	}
}

// Validate reports every setting the server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioPhoneNumber == "" {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}

	switch c.StoreDriver {
	case StoreMemory, StorePostgres, StoreMongo:
	case StoreFirebase:
		if c.FirebaseDatabaseURL == "" {
			errs = append(errs, errors.New("FIREBASE_DATABASE_URL is required for the firebase store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.IdentityDriver {
	case IdentityLocal:
	case IdentityFirebase:
		if c.FirebaseAPIKey == "" {
			errs = append(errs, errors.New("FIREBASE_API_KEY is required for firebase identity"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_DRIVER %q", c.IdentityDriver))
	}

	if c.TrackingInterval <= 0 {
		errs = append(errs, errors.New("TRACKING_PUSH_INTERVAL must be positive"))
	}
	if c.LoginRatePerMinute < 1 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE must be positive"))
	}
	return errors.Join(errs...)
}

// NeedsFirebase reports whether any configured driver uses the Firebase app.
func (c *Config) NeedsFirebase() bool {
	return c.StoreDriver == StoreFirebase || c.IdentityDriver == IdentityFirebase
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimezone,
	)
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
