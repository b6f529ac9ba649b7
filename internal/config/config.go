package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL          string
	LLMModelName        string
	LLMAPIKey           string
	EmbeddingBaseURL    string
	EmbeddingModelName  string
	EmbeddingVectorSize int

	QdrantURL        string
	QdrantCollection string

	DBPath           string
	EmployeeDataPath string
	DocsITPath       string
	DocsHRPath       string
	ForceReindex     bool
	RequireIdentity  bool

	Jira JiraConfig

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// JiraConfig holds the ticketing credentials and workflow identifiers.
// All fields are optional: a partially configured adapter degrades to
// structured failures instead of blocking startup.
type JiraConfig struct {
	Domain               string
	UserEmail            string
	APIToken             string
	ServiceDeskID        string
	RequestTypeID        string
	TransitionInProgress string
	TransitionClose      string
	L1AssigneeID         string
	L2AssigneeID         string
}

// Configured reports whether the minimum credentials for any Jira call are present.
func (j JiraConfig) Configured() bool {
	return j.Domain != "" && j.UserEmail != "" && j.APIToken != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically; environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env next to go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          os.Getenv("LLM_API_KEY"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "support_docs"),
		DBPath:             getEnv("DB_PATH", "./data/support-assistant.db"),
		EmployeeDataPath:   getEnv("EMPLOYEE_DATA_PATH", "./data/employee_data.json"),
		DocsITPath:         os.Getenv("DOCS_IT_PATH"),
		DocsHRPath:         os.Getenv("DOCS_HR_PATH"),
		ForceReindex:       boolEnv("FORCE_REINDEX"),
		RequireIdentity:    getEnv("REQUIRE_IDENTITY", "true") != "false",
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		Jira: JiraConfig{
			Domain:               os.Getenv("JIRA_DOMAIN"),
			UserEmail:            os.Getenv("JIRA_API_USER_EMAIL"),
			APIToken:             os.Getenv("JIRA_API_TOKEN"),
			ServiceDeskID:        os.Getenv("JIRA_SERVICE_DESK_ID"),
			RequestTypeID:        os.Getenv("JIRA_REQUEST_TYPE_ID"),
			TransitionInProgress: os.Getenv("JIRA_TRANSITION_ID_IN_PROGRESS"),
			TransitionClose:      os.Getenv("JIRA_TRANSITION_ID_CLOSE"),
			L1AssigneeID:         os.Getenv("JIRA_L1_ASSIGNEE_ACCOUNT_ID"),
			L2AssigneeID:         os.Getenv("JIRA_L2_ASSIGNEE_ACCOUNT_ID"),
		},
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	// The LLM credential is the only hard requirement on the generation path.
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	// Must match the output vector size of the embeddings model; the Qdrant
	// collection has to be recreated if this changes.
	vectorSizeStr := getEnv("EMBEDDING_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.EmbeddingVectorSize = vectorSize

	if cfg.DocsITPath == "" {
		return nil, fmt.Errorf("DOCS_IT_PATH is required")
	}
	if cfg.DocsHRPath == "" {
		return nil, fmt.Errorf("DOCS_HR_PATH is required")
	}

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// boolEnv interprets an environment variable as a boolean flag.
func boolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "true" || v == "1" || v == "yes"
}

// parseLogLevel maps a level name to a slog.Level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
