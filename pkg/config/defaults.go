// Package config provides centralized default values for LeadStack
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DBDriver                 string
	DBDataSource             string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Funnel Configuration
	CaptureThreshold int
	NotifyThreshold  int
	NotifyEmail      string

	// Analytics Tracking
	TrackingEndpointURL string
	TrackingTimeout     time.Duration

	// Visitor Segments
	SegmentTTL                time.Duration
	SegmentCleanupInterval    time.Duration
	EngagedInteractions       int
	HighlyEngagedInteractions int

	// Auth
	JWTSecret        string
	AESKey           string
	TokenTTL         time.Duration
	TwoFactorCodeTTL time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDataSource = getEnvString("DB_DATA_SOURCE", "leadstack.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)

	// Funnel Configuration
	CaptureThreshold = getEnvInt("CAPTURE_THRESHOLD", 80)
	NotifyThreshold = getEnvInt("NOTIFY_THRESHOLD", 90)
	NotifyEmail = getEnvString("NOTIFY_EMAIL", "")

	// Analytics Tracking
	TrackingEndpointURL = getEnvString("TRACKING_ENDPOINT_URL", "http://localhost:9100/track")
	TrackingTimeout = getEnvDuration("TRACKING_TIMEOUT", 5*time.Second)

	// Visitor Segments
	SegmentTTL = time.Duration(getEnvInt("SEGMENT_TTL_HOURS", 24)) * time.Hour
	SegmentCleanupInterval = time.Duration(getEnvInt("SEGMENT_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
	EngagedInteractions = getEnvInt("ENGAGED_INTERACTIONS", 3)
	HighlyEngagedInteractions = getEnvInt("HIGHLY_ENGAGED_INTERACTIONS", 10)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	TokenTTL = time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour
	TwoFactorCodeTTL = getEnvDuration("TWO_FACTOR_CODE_TTL", 10*time.Minute)
}
