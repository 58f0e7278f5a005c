package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName           = "SmartDoor"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultShutdownDelay     = 10 * time.Second
	defaultPasscodeTTL       = 300 * time.Second
	defaultDedupTTL          = time.Minute
	defaultCaptureRate       = 10
	defaultCollection        = "faces"
	defaultUnknownVisitorKey = "current-visitor.jpg"
	passcodeSecondsEnvVar    = "PASSCODE_TTL_SECONDS"
	passcodeDurEnvVar        = "PASSCODE_TTL"
	shutdownSecondsEnvVar    = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar   = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment
// variables. The decision engine receives the doorbell-specific subset at
// construction time so tests can substitute fixtures.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration

	// Image archival.
	Bucket            string
	UnknownVisitorKey string

	// Face directory.
	Collection string
	AWSRegion  string

	// S3-compatible endpoint overrides (blank means SDK defaults).
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	// Frame extraction.
	SnapshotURL string

	// Notification targets.
	OwnerPhoneNumber string
	OwnerReviewURL   string
	VisitorVerifyURL string

	PasscodeTTL time.Duration
	DedupTTL    time.Duration

	// Captures allowed per stream per minute.
	CaptureRatePerMin int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		ShutdownPeriod:    defaultShutdownDelay,
		Bucket:            os.Getenv("IMAGE_BUCKET"),
		UnknownVisitorKey: getEnv("UNKNOWN_VISITOR_KEY", defaultUnknownVisitorKey),
		Collection:        getEnv("FACE_COLLECTION", defaultCollection),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		S3BaseEndpoint:    os.Getenv("S3_BASE_ENDPOINT"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		SnapshotURL:       os.Getenv("SNAPSHOT_URL"),
		OwnerPhoneNumber:  os.Getenv("OWNER_PHONE_NUMBER"),
		OwnerReviewURL:    os.Getenv("OWNER_REVIEW_URL"),
		VisitorVerifyURL:  os.Getenv("VISITOR_VERIFY_URL"),
		PasscodeTTL:       defaultPasscodeTTL,
		DedupTTL:          defaultDedupTTL,
		CaptureRatePerMin: defaultCaptureRate,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(passcodeSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", passcodeSecondsEnvVar, err)
		}
		cfg.PasscodeTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(passcodeDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", passcodeDurEnvVar, err)
		}
		cfg.PasscodeTTL = d
	}

	if v := os.Getenv("DEDUP_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEDUP_TTL: %w", err)
		}
		cfg.DedupTTL = d
	}

	if v := os.Getenv("CAPTURE_RATE_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid CAPTURE_RATE_PER_MIN: %q", v)
		}
		cfg.CaptureRatePerMin = n
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	if cfg.Bucket == "" {
		return Config{}, fmt.Errorf("IMAGE_BUCKET must be set")
	}

	if cfg.OwnerPhoneNumber == "" {
		return Config{}, fmt.Errorf("OWNER_PHONE_NUMBER must be set")
	}

	if cfg.OwnerReviewURL == "" {
		return Config{}, fmt.Errorf("OWNER_REVIEW_URL must be set")
	}

	if cfg.VisitorVerifyURL == "" {
		return Config{}, fmt.Errorf("VISITOR_VERIFY_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
