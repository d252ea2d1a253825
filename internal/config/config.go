// Package config provides configuration management for curvewatch.
package config

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/curvewatch/curvewatch/llm"
	"github.com/curvewatch/curvewatch/llm/anthropic"
	"github.com/curvewatch/curvewatch/llm/httpchat"
	"github.com/curvewatch/curvewatch/llm/openai"
)

// Default provider endpoints and models.
const (
	DefaultPiAPIBaseURL    = "https://api.piapi.ai/v1/chat/completions"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1/chat/completions"
	DefaultGroqBaseURL     = "https://api.groq.com/openai/v1"

	DefaultPiAPIModel     = "gpt-4o-mini"
	DefaultGroqModel      = "llama-3.1-70b-versatile"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultDeepSeekModel  = "deepseek-chat"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
)

// Config holds all configuration for the curvewatch commands.
type Config struct {
	// DataDir is the directory for persistent data (SQLite DB, CSV files,
	// charts, counters, sentinels).
	DataDir string

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string

	// ChartDir is where rendered PNG charts are written and served from.
	ChartDir string

	// CounterPath is the JSON file holding the per-report counters.
	CounterPath string

	// SentinelDir holds the per-report daily sent markers.
	SentinelDir string

	// ServerAddr is the address the HTTP server listens on (e.g., ":7080").
	ServerAddr string

	// FREDAPIKey authenticates against the FRED observations API.
	FREDAPIKey string
	// FREDBaseURL overrides the observations endpoint (mostly for tests).
	FREDBaseURL string

	// LLMProvider is the primary provider identifier.
	LLMProvider string
	// LLMFallbackOrder is the comma-separated provider fallback order.
	LLMFallbackOrder []string

	// Per-provider credentials and model overrides.
	PiAPIKey        string
	PiAPIModel      string
	PiAPIBaseURL    string
	GroqAPIKey      string
	GroqModel       string
	OpenAIAPIKey    string
	OpenAIModel     string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	DeepSeekBaseURL string
	AnthropicAPIKey string
	AnthropicModel  string

	// Telegram delivery (optional).
	TelegramBotToken string
	TelegramChatID   int64

	// Slack delivery (optional).
	SlackBotToken string
	SlackChannel  string

	// GitHub issue delivery (optional). Repo is "owner/repo".
	GitHubToken string
	GitHubRepo  string
}

// Load creates a Config from the config file and environment variables.
// Values are resolved in order: environment variable > config file > default.
func Load() (*Config, error) {
	// Load config file (~/.curvewatch/config.env) into the environment.
	// Existing env vars take precedence (loadConfigFile only sets unset vars).
	loadConfigFile()

	dataDir := envOr("CURVEWATCH_DATA_DIR", defaultDataDir())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	cfg := &Config{
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, "curvewatch.db"),
		ChartDir:     envOr("CURVEWATCH_CHART_DIR", filepath.Join(dataDir, "charts")),
		CounterPath:  filepath.Join(dataDir, "counters.json"),
		SentinelDir:  filepath.Join(dataDir, "sentinels"),
		ServerAddr:   envOr("CURVEWATCH_ADDR", ":7080"),

		FREDAPIKey:  os.Getenv("FRED_API_KEY"),
		FREDBaseURL: os.Getenv("FRED_BASE_URL"),

		LLMProvider:      envOr("LLM_PROVIDER", "piapi"),
		LLMFallbackOrder: splitList(envOr("LLM_FALLBACK_ORDER", "piapi,groq,openai,deepseek")),

		PiAPIKey:        os.Getenv("PIAPI_API_KEY"),
		PiAPIModel:      envOr("PIAPI_MODEL", DefaultPiAPIModel),
		PiAPIBaseURL:    envOr("PIAPI_BASE_URL", DefaultPiAPIBaseURL),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       envOr("GROQ_MODEL", DefaultGroqModel),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", DefaultOpenAIModel),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekModel:   envOr("DEEPSEEK_MODEL", DefaultDeepSeekModel),
		DeepSeekBaseURL: envOr("DEEPSEEK_BASE_URL", DefaultDeepSeekBaseURL),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", DefaultAnthropicModel),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   envOrInt64("TELEGRAM_CHAT_ID", 0),

		SlackBotToken: os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:  os.Getenv("SLACK_CHANNEL"),

		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		GitHubRepo:  os.Getenv("GITHUB_REPORT_REPO"),
	}

	return cfg, nil
}

// loadConfigFile reads ~/.curvewatch/config.env and sets any values that are
// not already present in the environment. This ensures env vars always win.
func loadConfigFile() {
	path := filepath.Join(defaultDataDir(), "config.env")
	f, err := os.Open(path)
	if err != nil {
		return // file doesn't exist or can't be read — that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]
		// Only set if not already in the environment.
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// Validate checks that required configuration is present for fetching.
func (c *Config) Validate() error {
	if c.FREDAPIKey == "" {
		return fmt.Errorf("FRED_API_KEY is required")
	}
	return nil
}

// TelegramEnabled returns true if Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// SlackEnabled returns true if Slack delivery is configured.
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

// GitHubEnabled returns true if GitHub issue delivery is configured.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

// LLMConfig assembles the fallback client configuration with all
// compiled-in provider adapters. Adapters report missing credentials at
// call time, so an unconfigured provider simply fails over.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Primary: c.LLMProvider,
		Order:   c.LLMFallbackOrder,
		Backends: map[string]llm.Backend{
			"piapi": httpchat.New(httpchat.Config{
				Name:    "piapi",
				APIKey:  c.PiAPIKey,
				KeyEnv:  "PIAPI_API_KEY",
				Model:   c.PiAPIModel,
				BaseURL: c.PiAPIBaseURL,
			}),
			"deepseek": httpchat.New(httpchat.Config{
				Name:    "deepseek",
				APIKey:  c.DeepSeekAPIKey,
				KeyEnv:  "DEEPSEEK_API_KEY",
				Model:   c.DeepSeekModel,
				BaseURL: c.DeepSeekBaseURL,
			}),
			"groq": openai.New(openai.Config{
				Name:    "groq",
				APIKey:  c.GroqAPIKey,
				KeyEnv:  "GROQ_API_KEY",
				Model:   c.GroqModel,
				BaseURL: DefaultGroqBaseURL,
			}),
			"openai": openai.New(openai.Config{
				Name:   "openai",
				APIKey: c.OpenAIAPIKey,
				KeyEnv: "OPENAI_API_KEY",
				Model:  c.OpenAIModel,
			}),
			"anthropic": anthropic.New(anthropic.Config{
				APIKey: c.AnthropicAPIKey,
				Model:  c.AnthropicModel,
			}),
		},
		Logf: log.Printf,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".curvewatch"
	}
	return filepath.Join(home, ".curvewatch")
}
