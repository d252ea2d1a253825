package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// configKey describes a single configuration value.
type configKey struct {
	Key      string
	Desc     string
	Required bool
	Secret   bool
}

// allConfigKeys lists every configurable value in display order.
var allConfigKeys = []configKey{
	{"FRED_API_KEY", "FRED API key (api.stlouisfed.org)", true, true},
	{"LLM_PROVIDER", "Primary LLM provider (piapi, groq, openai, deepseek, anthropic)", false, false},
	{"LLM_FALLBACK_ORDER", "Comma-separated provider fallback order", false, false},
	{"PIAPI_API_KEY", "PiAPI key", false, true},
	{"GROQ_API_KEY", "Groq API key", false, true},
	{"OPENAI_API_KEY", "OpenAI API key", false, true},
	{"DEEPSEEK_API_KEY", "DeepSeek API key", false, true},
	{"ANTHROPIC_API_KEY", "Anthropic API key", false, true},
	{"TELEGRAM_BOT_TOKEN", "Telegram bot token (from @BotFather)", false, true},
	{"TELEGRAM_CHAT_ID", "Telegram chat ID for report delivery", false, false},
	{"SLACK_BOT_TOKEN", "Slack Bot User OAuth Token (xoxb-...)", false, true},
	{"SLACK_CHANNEL", "Slack channel ID for report delivery", false, false},
	{"GITHUB_TOKEN", "GitHub token for issue delivery", false, true},
	{"GITHUB_REPORT_REPO", "Repository for report issues (owner/repo)", false, false},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage curvewatch configuration",
	Long: `Manage curvewatch configuration (API keys, delivery targets).

Configuration is stored in ~/.curvewatch/config.env and can be overridden
by environment variables.

  curvewatch config set KEY VALUE     Set a single config value
  curvewatch config show              Show current configuration
  curvewatch config path              Print config file path`,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a config value",
	Long: `Set a single configuration value. Example:
  curvewatch config set FRED_API_KEY abcdef0123456789`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display all configured values. Secrets are masked.",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(configFilePath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath returns ~/.curvewatch/config.env.
func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".curvewatch", "config.env")
	}
	return filepath.Join(home, ".curvewatch", "config.env")
}

// loadConfigFile reads key=value pairs from the config file.
func loadConfigFile() (map[string]string, error) {
	values := make(map[string]string)

	f, err := os.Open(configFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			values[parts[0]] = parts[1]
		}
	}
	return values, scanner.Err()
}

// saveConfigFile writes key=value pairs to the config file.
func saveConfigFile(values map[string]string) error {
	path := configFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# curvewatch configuration")
	fmt.Fprintln(f, "# Managed by: curvewatch config")
	fmt.Fprintln(f, "# Environment variables override these values.")
	fmt.Fprintln(f)

	// Write in a stable order: known keys first, then any extras.
	written := make(map[string]bool)
	for _, ck := range allConfigKeys {
		if v, ok := values[ck.Key]; ok && v != "" {
			fmt.Fprintf(f, "%s=%s\n", ck.Key, v)
			written[ck.Key] = true
		}
	}

	var extras []string
	for k := range values {
		if !written[k] && values[k] != "" {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		fmt.Fprintf(f, "%s=%s\n", k, values[k])
	}

	return nil
}

// effectiveValue returns the current value for a key, preferring env vars over config file.
func effectiveValue(key string, fileValues map[string]string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fileValues[key]
}

// maskSecret masks a secret string, showing only the first 4 and last 4 characters.
func maskSecret(s string) string {
	if len(s) <= 12 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

// runConfigSet sets a single key=value in the config file.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	fileValues, err := loadConfigFile()
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	fileValues[key] = value

	if err := saveConfigFile(fileValues); err != nil {
		return err
	}

	isSecret := false
	for _, ck := range allConfigKeys {
		if ck.Key == key && ck.Secret {
			isSecret = true
			break
		}
	}

	if isSecret {
		fmt.Printf("Set %s = %s\n", key, maskSecret(value))
	} else {
		fmt.Printf("Set %s = %s\n", key, value)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fileValues, err := loadConfigFile()
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	fmt.Printf("Config file: %s\n\n", configFilePath())

	for _, ck := range allConfigKeys {
		value := effectiveValue(ck.Key, fileValues)
		source := ""
		if os.Getenv(ck.Key) != "" {
			source = " (from env)"
		} else if fileValues[ck.Key] != "" {
			source = " (from config file)"
		}

		display := "(not set)"
		if value != "" {
			if ck.Secret {
				display = maskSecret(value)
			} else {
				display = value
			}
		}

		reqTag := ""
		if ck.Required {
			reqTag = " *"
		}

		fmt.Printf("  %-25s %s%s\n", ck.Key+reqTag, display, source)
	}

	fmt.Println("\n  * = required")
	return nil
}
