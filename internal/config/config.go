// Package config resolves agent settings from an optional YAML file and
// the environment. Environment values override the file.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tgagent/internal/allowlist"
	"github.com/ppiankov/tgagent/internal/executor"
	"github.com/ppiankov/tgagent/internal/llm"
)

// Environment variable names.
const (
	EnvBotToken  = "TELEGRAM_BOT_TOKEN"
	EnvUserID    = "TELEGRAM_USER_ID"
	EnvWorkspace = "TELEGRAM_WORKSPACE"
	EnvLLMKey    = "OPENROUTER_API_KEY"
	EnvLLMURL    = "TGAGENT_LLM_URL"
	EnvLLMModel  = "TGAGENT_LLM_MODEL"
	EnvConfig    = "TGAGENT_CONFIG"
	EnvAuditLog  = "TGAGENT_AUDIT_LOG"
	EnvLogLevel  = "TGAGENT_LOG_LEVEL"
)

var (
	ErrMissingToken = errors.New(EnvBotToken + " must be set")
	ErrMissingUser  = errors.New(EnvUserID + " must be set to a non-zero id")
)

// LLM holds the language model endpoint settings.
type LLM struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the resolved agent configuration.
type Config struct {
	BotToken       string              `yaml:"bot_token"`
	UserID         int64               `yaml:"user_id"`
	Workspace      string              `yaml:"workspace"`
	CommandTimeout time.Duration       `yaml:"command_timeout"`
	Commands       map[string][]string `yaml:"commands"`
	AuditLog       string              `yaml:"audit_log"`
	LogLevel       string              `yaml:"log_level"`
	LogFormat      string              `yaml:"log_format"`
	LLM            LLM                 `yaml:"llm"`

	// Hash is "sha256:<hex>" of the raw config file, or of empty input
	// when no file was read.
	Hash string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CommandTimeout: executor.DefaultTimeout,
		LogLevel:       "info",
		LogFormat:      "text",
		LLM: LLM{
			BaseURL: llm.DefaultBaseURL,
			Model:   llm.DefaultModel,
			Timeout: llm.DefaultTimeout,
		},
	}
}

// Load reads path (if non-empty) over the defaults and applies environment
// overrides. An explicitly named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	var raw []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		raw = data
	}
	h := sha256.Sum256(raw)
	cfg.Hash = "sha256:" + hex.EncodeToString(h[:])

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&c.BotToken, EnvBotToken)
	set(&c.Workspace, EnvWorkspace)
	set(&c.LLM.APIKey, EnvLLMKey)
	set(&c.LLM.BaseURL, EnvLLMURL)
	set(&c.LLM.Model, EnvLLMModel)
	set(&c.AuditLog, EnvAuditLog)
	set(&c.LogLevel, EnvLogLevel)

	if v, ok := lookup(EnvUserID); ok && strings.TrimSpace(v) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvUserID, v, err)
		}
		c.UserID = id
	}
	return nil
}

// Validate checks the settings required to start, and resolves the
// workspace to an absolute directory (the current directory by default).
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	if c.UserID == 0 {
		return ErrMissingUser
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}

	if c.Workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve workspace: %w", err)
		}
		c.Workspace = wd
	}
	abs, err := filepath.Abs(c.Workspace)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace %s is not a directory", abs)
	}
	c.Workspace = abs
	return nil
}

// CommandTable builds the allow-list, falling back to the defaults when
// the file defines no commands.
func (c *Config) CommandTable() (*allowlist.Table, error) {
	if len(c.Commands) == 0 {
		return allowlist.Default(), nil
	}
	return allowlist.New(c.Commands)
}
