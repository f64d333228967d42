package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string `validate:"required"` // TOTP issuer shown in authenticator apps (default: lotto)
	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile  string `validate:"required"` // Path to SQLite database file (default: ./lotto.db)
	PepperFile    string `validate:"required"` // Path to file containing pepper for password hashing (default: ./pepper)
	MasterKeyPath string // Optional: path to the master key that wraps per-user draw keys

	AuditLogFile    string `validate:"required"` // Audit log path, "-" for stderr (default: ./audit.log)
	AuditMaxSizeMB  int    `validate:"gte=1"`    // Rotate the audit log at this size (default: 100)
	AuditMaxBackups int    `validate:"gte=0"`    // Rotated audit logs to keep, 0 keeps all (default: 0)

	SessionTTL   time.Duration `validate:"gt=0"` // Login session lifetime (default: 12h)
	CookieSecure bool          // Secure flag on the session cookie (default: true outside dev)

	Env                  string        `validate:"oneof=dev staging prod"` // Environment (default: dev)
	LogLevel             string        `validate:"oneof=debug info warn warning error"`
	LogFormat            string        `validate:"oneof=json text"`
	Port                 int           `validate:"gte=1,lte=65535"`
	ShutdownGracePeriod  time.Duration `validate:"gt=0"`
	HousekeepingInterval time.Duration `validate:"gt=0"`
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	env := getEnvOrDefault("ENV", "dev")
	cfg := Config{
		Issuer:               getEnvOrDefault("LOTTO_ISSUER", "lotto"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		DatabaseFile:         getEnvOrDefault("LOTTO_DATABASE_FILE", "lotto.db"),
		PepperFile:           getEnvOrDefault("LOTTO_PEPPER_FILE", "pepper"),
		MasterKeyPath:        os.Getenv("LOTTO_MASTER_KEY_PATH"),
		AuditLogFile:         getEnvOrDefault("LOTTO_AUDIT_LOG_FILE", "audit.log"),
		AuditMaxSizeMB:       getEnvIntOrDefault("LOTTO_AUDIT_MAX_SIZE_MB", 100),
		AuditMaxBackups:      getEnvIntOrDefault("LOTTO_AUDIT_MAX_BACKUPS", 0),
		SessionTTL:           getEnvDurationOrDefault("LOTTO_SESSION_TTL", 12*time.Hour),
		CookieSecure:         getEnvBoolOrDefault("LOTTO_COOKIE_SECURE", env != "dev"),
		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
