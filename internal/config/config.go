package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/security"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	ExhaustionFail        = "fail"
	ExhaustionPlaceholder = "placeholder"

	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendBlob     = "blob"
)

// DefaultGeminiModels is the fallback order tried when no model list is configured
var DefaultGeminiModels = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-1.0-pro", "gemini-pro"}

// DefaultOpenAIModels is used for the openai provider when no model list is configured
var DefaultOpenAIModels = []string{"gpt-4o-mini", "gpt-4o"}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	History  HistoryConfig
	Database DatabaseConfig
	Azure    AzureConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	AllowOrigins    []string
}

// AIConfig selects the text generation backend and the fallback behaviour
type AIConfig struct {
	Provider       string
	APIKey         string
	Endpoint       string // Azure OpenAI endpoint, openai provider only
	BaseURL        string // Gemini API base URL override
	Models         []string
	AttemptTimeout time.Duration
	Budget         time.Duration
	OnExhaustion   string
}

// HistoryConfig holds history store configuration
type HistoryConfig struct {
	Backend       string
	Capacity      int
	EncryptionKey string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	ConnMaxLifetime time.Duration
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	Storage StorageConfig
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName      string
	AccountKey       string
	HistoryContainer string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.alloworigins", []string{"*"})

	// AI defaults
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.attempttimeout", 30*time.Second)
	v.SetDefault("ai.budget", 90*time.Second)
	v.SetDefault("ai.onexhaustion", ExhaustionFail)

	// History defaults
	v.SetDefault("history.backend", BackendMemory)
	v.SetDefault("history.capacity", 3)

	// Database defaults
	v.SetDefault("database.maxconns", 10)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	v.SetDefault("azure.storage.historycontainer", "health-history")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.alloworigins", "ALLOW_ORIGINS")

	// AI
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.apikey", "AI_API_KEY", "GEMINI_API_KEY", "AZURE_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("ai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("ai.baseurl", "AI_BASE_URL")
	v.BindEnv("ai.models", "AI_MODELS")
	v.BindEnv("ai.attempttimeout", "AI_ATTEMPT_TIMEOUT")
	v.BindEnv("ai.budget", "AI_BUDGET")
	v.BindEnv("ai.onexhaustion", "AI_ON_EXHAUSTION")

	// History
	v.BindEnv("history.backend", "HISTORY_BACKEND")
	v.BindEnv("history.capacity", "HISTORY_CAPACITY")
	v.BindEnv("history.encryptionkey", "HISTORY_ENCRYPTION_KEY")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.historycontainer", "AZURE_STORAGE_HISTORY_CONTAINER")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// normalize trims list entries and fills provider dependent defaults
func (c *Config) normalize() {
	clean := func(items []string) []string {
		return lo.Compact(lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) }))
	}

	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.AI.OnExhaustion = strings.ToLower(strings.TrimSpace(c.AI.OnExhaustion))
	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	c.Server.AllowOrigins = clean(c.Server.AllowOrigins)
	c.AI.Models = clean(c.AI.Models)

	if len(c.AI.Models) == 0 {
		switch c.AI.Provider {
		case ProviderOpenAI:
			c.AI.Models = append([]string(nil), DefaultOpenAIModels...)
		default:
			c.AI.Models = append([]string(nil), DefaultGeminiModels...)
		}
	}
}

// Validate checks if the configuration is valid. The AI key is not required
// here; a missing key is reported per request.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.AI.Provider)
	}

	switch c.AI.OnExhaustion {
	case ExhaustionFail, ExhaustionPlaceholder:
	default:
		return fmt.Errorf("ai.onexhaustion must be %q or %q, got %q", ExhaustionFail, ExhaustionPlaceholder, c.AI.OnExhaustion)
	}

	if len(c.AI.Models) == 0 {
		return fmt.Errorf("ai.models must list at least one model")
	}

	if c.AI.AttemptTimeout < 0 || c.AI.Budget < 0 {
		return fmt.Errorf("ai.attempttimeout and ai.budget must not be negative")
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}

	switch c.History.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres history backend")
		}
	case BackendBlob:
		if c.Azure.Storage.AccountName == "" || c.Azure.Storage.AccountKey == "" {
			return fmt.Errorf("azure storage account name and key are required for the blob history backend")
		}
	default:
		return fmt.Errorf("history.backend must be one of memory, postgres, blob, got %q", c.History.Backend)
	}

	if c.History.EncryptionKey != "" {
		if _, err := security.ParseKey(c.History.EncryptionKey); err != nil {
			return fmt.Errorf("history.encryptionkey: %w", err)
		}
	}

	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// AIConfigured reports whether a credential for the text generation backend is present
func (c *Config) AIConfigured() bool {
	return strings.TrimSpace(c.AI.APIKey) != ""
}
