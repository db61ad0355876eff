package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment configuration of the server.
type Config struct {
	// Firestore and Firebase. An empty project id selects the in-memory store.
	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	Port      string
	CorsHosts []string

	// Organizer mail
	ResendKey string
	MailFrom  string
	HostURL   string

	LogLevel  string
	LogPretty bool

	// Location reads schedule times sent without an offset and decides what
	// counts as today.
	Location *time.Location

	// AuthDisabled skips ID token verification, for local runs only.
	AuthDisabled bool
}

// Load reads a .env file when present and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		Port:                    getEnvWithDefault("PORT", "8080"),
		CorsHosts:               splitList(os.Getenv("CORS_HOSTS")),
		ResendKey:               os.Getenv("RESEND_KEY"),
		MailFrom:                getEnvWithDefault("MAIL_FROM", "onboarding@resend.dev"),
		HostURL:                 strings.TrimSuffix(os.Getenv("HOST_URL"), "/"),
		LogLevel:                getEnvWithDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LogPretty, err = getBool("LOG_PRETTY"); err != nil {
		return nil, err
	}
	if cfg.AuthDisabled, err = getBool("AUTH_DISABLED"); err != nil {
		return nil, err
	}

	zone := getEnvWithDefault("TIME_ZONE", "Europe/Oslo")
	if cfg.Location, err = time.LoadLocation(zone); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %q", cfg.Port)
	}
	if cfg.FirebaseProjectID != "" && cfg.FirebaseCredentialsJSON == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_JSON is required when FIREBASE_PROJECT_ID is set")
	}
	if cfg.FirebaseProjectID == "" && !cfg.AuthDisabled {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required unless AUTH_DISABLED is set")
	}
	return cfg, nil
}

// UseFirestore reports whether tournaments are kept in Firestore.
func (c *Config) UseFirestore() bool {
	return c.FirebaseProjectID != ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
