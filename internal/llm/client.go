// Package llm relays free-text questions to an OpenAI-compatible chat
// completion endpoint. It is read-only and bypasses the approval pipeline.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/tgagent/internal/output"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-3.5-turbo"
	DefaultTimeout = 30 * time.Second
)

// MsgNotConfigured is returned by Ask when no API key is set.
const MsgNotConfigured = "LLM is not configured: set OPENROUTER_API_KEY."

var errEmptyResponse = errors.New("response contained no choices")

// Config selects the endpoint and credentials.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client answers questions with a single synchronous completion request.
type Client struct {
	cfg    Config
	client openai.Client
	log    logrus.FieldLogger
}

// New builds a Client. An empty APIKey yields a client whose Ask reports
// MsgNotConfigured without touching the network.
func New(cfg Config, log logrus.FieldLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &Client{cfg: cfg, log: log}
	if cfg.APIKey != "" {
		c.client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithRequestTimeout(cfg.Timeout),
			option.WithMaxRetries(0),
		)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Ask returns the formatted answer, or an inline error message. It never
// returns an error to the caller.
func (c *Client) Ask(ctx context.Context, question string) string {
	if !c.Configured() {
		return MsgNotConfigured
	}

	answer, err := c.complete(ctx, question)
	if err != nil {
		c.log.WithError(err).WithField("model", c.cfg.Model).Warn("llm request failed")
		return "Error: " + err.Error()
	}
	return output.Format(answer)
}

func (c *Client) complete(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(question),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
