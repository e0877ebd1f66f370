package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Config is the root configuration for Jarvis.
type Config struct {
	General  GeneralConfig  `json:"general"`
	Engine   EngineConfig   `json:"engine"`
	Channels ChannelsConfig `json:"channels"`
	Contacts ContactsConfig `json:"contacts"`
	History  HistoryConfig  `json:"history"`
	Executor ExecutorConfig `json:"executor"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel              string `json:"logLevel"`
	LogFile               string `json:"logFile,omitempty"` // optional log file path
	MaxConcurrentMessages int    `json:"maxConcurrentMessages"`
}

// EngineConfig configures the intent interpreter.
type EngineConfig struct {
	WakeWord      string `json:"wakeWord"`
	AssistantName string `json:"assistantName"`
}

type ChannelsConfig struct {
	API       APIConfig       `json:"api"`
	CLI       CLIConfig       `json:"cli"`
	WebSocket WebSocketConfig `json:"websocket,omitempty"`
	Telegram  TelegramConfig  `json:"telegram,omitempty"`
	Discord   DiscordConfig   `json:"discord,omitempty"`
	Slack     SlackConfig     `json:"slack,omitempty"`
}

// APIConfig configures the HTTP interpret endpoint.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Secret  string `json:"secret,omitempty"` // optional HMAC signing secret
}

type CLIConfig struct {
	Enabled bool `json:"enabled"`
}

type WebSocketConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path"`
}

type TelegramConfig struct {
	Enabled   bool           `json:"enabled"`
	Token     string         `json:"token"`
	AllowFrom FlexStringList `json:"allowFrom"`
	ParseMode string         `json:"parseMode"`
}

type DiscordConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	GuildID string `json:"guildId,omitempty"` // optional: restrict to specific guild
}

type SlackConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"botToken"`
	AppToken string `json:"appToken"` // required for Socket Mode
}

// ContactsConfig configures phone number lookup sources. Entries here take
// precedence over the YAML file, which takes precedence over environment
// variables.
type ContactsConfig struct {
	File    string            `json:"file,omitempty"` // YAML contacts file
	Entries map[string]string `json:"entries,omitempty"`
}

type HistoryConfig struct {
	Enabled       bool   `json:"enabled"`
	DBPath        string `json:"dbPath"`
	RetentionDays int    `json:"retentionDays"`
}

// ExecutorConfig configures the browser action executor.
type ExecutorConfig struct {
	Enabled    bool   `json:"enabled"`
	ProfileDir string `json:"profileDir,omitempty"`
	Headless   bool   `json:"headless"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// FlexStringList is a []string that can unmarshal from JSON arrays containing
// both strings and numbers (e.g. ["123", 456] both become "123", "456").
type FlexStringList []string

func (f *FlexStringList) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}
	// Fallback: array of mixed types
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			result = append(result, s)
			continue
		}
		var n float64
		if err := json.Unmarshal(item, &n); err == nil {
			result = append(result, strconv.FormatInt(int64(n), 10))
			continue
		}
		result = append(result, string(item))
	}
	*f = result
	return nil
}

// DefaultConfigDir returns the default config directory (~/.jarvis).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jarvis"
	}
	return filepath.Join(home, ".jarvis")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)
	cfg.Contacts.File = ExpandPath(cfg.Contacts.File)
	cfg.History.DBPath = ExpandPath(cfg.History.DBPath)
	cfg.Executor.ProfileDir = ExpandPath(cfg.Executor.ProfileDir)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.General.MaxConcurrentMessages < 1 || cfg.General.MaxConcurrentMessages > 100 {
		errs = append(errs, "general.maxConcurrentMessages must be between 1 and 100")
	}
	if cfg.Engine.WakeWord == "" {
		errs = append(errs, "engine.wakeWord must not be empty")
	}
	if cfg.Engine.AssistantName == "" {
		errs = append(errs, "engine.assistantName must not be empty")
	}

	if cfg.Channels.API.Port < 0 || cfg.Channels.API.Port > 65535 {
		errs = append(errs, "channels.api.port must be between 0 and 65535")
	}
	if cfg.Channels.WebSocket.Port < 0 || cfg.Channels.WebSocket.Port > 65535 {
		errs = append(errs, "channels.websocket.port must be between 0 and 65535")
	}
	if cfg.Channels.WebSocket.Enabled && !strings.HasPrefix(cfg.Channels.WebSocket.Path, "/") {
		errs = append(errs, "channels.websocket.path must start with /")
	}

	if cfg.History.RetentionDays < 1 {
		errs = append(errs, "history.retentionDays must be >= 1")
	}
	if cfg.History.Enabled && cfg.History.DBPath == "" {
		errs = append(errs, "history.dbPath is required when history is enabled")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Endpoint, "/") {
		errs = append(errs, "metrics.endpoint must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
