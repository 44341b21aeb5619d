// Package aigateway wraps the OpenAI-compatible inference gateway used for
// drawing analysis, behavior insights and transcript summaries.
package aigateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"family-journal-go/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	// ErrRateLimited mirrors an upstream 429; surfaced to clients unchanged.
	ErrRateLimited = errors.New("ai gateway rate limited")
	// ErrQuotaExceeded mirrors an upstream 402 from the gateway's credit check.
	ErrQuotaExceeded = errors.New("ai gateway quota exhausted")
	// ErrNotConfigured indicates the gateway API key is missing.
	ErrNotConfigured = errors.New("ai gateway not configured")
)

type Client struct {
	api     openai.Client
	model   string
	enabled bool
}

func New(cfg config.AIConfig) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		api:     openai.NewClient(opts...),
		model:   cfg.Model,
		enabled: cfg.APIKey != "",
	}
}

// Complete runs a plain text chat completion and returns the raw content.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.enabled {
		return "", ErrNotConfigured
	}

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", mapError(err)
	}

	return firstChoice(completion)
}

// CompleteWithImage runs a multimodal completion over a prompt plus an image
// reference (URL or data URI).
func (c *Client) CompleteWithImage(ctx context.Context, system, prompt, imageURL string) (string, error) {
	if !c.enabled {
		return "", ErrNotConfigured
	}

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				}),
			}),
		},
	})
	if err != nil {
		return "", mapError(err)
	}

	return firstChoice(completion)
}

// CompleteJSON runs Complete and decodes the (possibly fenced) JSON reply.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string, out any) error {
	content, err := c.Complete(ctx, system, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ExtractJSON(content)), out); err != nil {
		return fmt.Errorf("decode ai response: %w", err)
	}
	return nil
}

// CompleteImageJSON is CompleteWithImage plus JSON decoding of the reply.
func (c *Client) CompleteImageJSON(ctx context.Context, system, prompt, imageURL string, out any) error {
	content, err := c.CompleteWithImage(ctx, system, prompt, imageURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ExtractJSON(content)), out); err != nil {
		return fmt.Errorf("decode ai response: %w", err)
	}
	return nil
}

func firstChoice(completion *openai.ChatCompletion) (string, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", errors.New("ai gateway returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusPaymentRequired:
			return ErrQuotaExceeded
		}
	}
	return err
}

// ExtractJSON strips markdown code fences models like to wrap JSON in and
// trims to the outermost object.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
