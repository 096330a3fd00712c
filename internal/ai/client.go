package ai

import (
	"context"
	"errors"
	"log/slog"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"reviewlens/internal/config"
)

// Client wraps the OpenAI chat API for sentiment classification and
// summary generation. Both operations absorb failures instead of
// propagating them: a broken model call degrades the result, never the
// request.
type Client struct {
	oai    openai.Client
	cfg    *config.AIConfig
	logger *slog.Logger
}

// NewClient creates a new model client from configuration.
func NewClient(cfg *config.AIConfig, logger *slog.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		oai:    openai.NewClient(opts...),
		cfg:    cfg,
		logger: logger.With("component", "ai_client"),
	}
}

// complete issues one chat completion and returns the message text.
func (c *Client) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	resp, err := c.oai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       shared.ChatModel(c.cfg.Model),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in model response")
	}
	return resp.Choices[0].Message.Content, nil
}
