package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env       string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Google    GoogleConfig
	Sync      SyncConfig
	Gemini    GeminiConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Embedded bool
}

// GoogleConfig covers the Sheets and Drive integrations.
type GoogleConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	RootFolderID    string
	// nombre de ensayo -> Drive file id of the worksheet template
	Templates map[string]string
}

// SyncConfig tunes the reconciliation engine.
type SyncConfig struct {
	Enabled  bool
	Interval time.Duration
	LeaseTTL time.Duration
	Holder   string
}

// GeminiConfig holds the document classifier settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is required")
	}

	interval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}
	leaseTTL, err := time.ParseDuration(getEnv("SYNC_LEASE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_LEASE_TTL: %w", err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "api"
	}

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "3001"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "lab17025"),
			Embedded: getEnv("PG_EMBEDDED", "false") == "true",
		},
		Google: GoogleConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			SpreadsheetID:   spreadsheetID,
			RootFolderID:    os.Getenv("DRIVE_ROOT_FOLDER_ID"),
			Templates:       parseTemplates(os.Getenv("WORKSHEET_TEMPLATES")),
		},
		Sync: SyncConfig{
			Enabled:  getEnv("SYNC_ENABLED", "true") == "true",
			Interval: interval,
			LeaseTTL: leaseTTL,
			Holder:   getEnv("SYNC_HOLDER", hostname),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
	}, nil
}

// parseTemplates decodes WORKSHEET_TEMPLATES, a comma-separated list of
// nombre=driveFileID pairs, e.g. "corte_directo=1abc,triaxial=1def".
func parseTemplates(raw string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" || v == "" {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
