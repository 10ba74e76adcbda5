// Package genai wraps the OpenAI-compatible endpoint of the generation
// service behind the stage-facing client interfaces. A fresh API client is
// built per call so each request can carry the credential drawn from the
// pool for that call.
package genai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"foodvision-server-go/internal/domain/credential"
	"foodvision-server-go/internal/domain/image"
	"foodvision-server-go/internal/platform/config"
	"foodvision-server-go/internal/platform/logging"
)

// Client issues vision and text generation calls.
type Client struct {
	cfg    config.ModelConfig
	logger *logging.Logger
}

// NewClient constructs a client for the configured model endpoint.
func NewClient(cfg config.ModelConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.Duration(30 * time.Second)
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) apiClient(key credential.Credential) *openai.Client {
	clientConfig := openai.DefaultConfig(string(key))
	if c.cfg.BaseURL != "" {
		clientConfig.BaseURL = c.cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: c.cfg.Timeout.Std()}
	return openai.NewClientWithConfig(clientConfig)
}

// Generate submits an image plus instruction and returns the text response.
func (c *Client) Generate(
	ctx context.Context,
	key credential.Credential,
	instruction string,
	img *image.Normalized,
) (string, error) {
	visionMessage := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: instruction,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:image/%s;base64,%s", img.Format, img.Base64),
				},
			},
		},
	}

	return c.complete(ctx, key, []openai.ChatCompletionMessage{visionMessage})
}

// Complete submits a single text prompt with no conversation history.
func (c *Client) Complete(ctx context.Context, key credential.Credential, prompt string) (string, error) {
	message := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	}
	return c.complete(ctx, key, []openai.ChatCompletionMessage{message})
}

func (c *Client) complete(
	ctx context.Context,
	key credential.Credential,
	messages []openai.ChatCompletionMessage,
) (string, error) {
	start := time.Now()
	resp, err := c.apiClient(key).CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.cfg.ModelName,
			Messages:    messages,
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: float32(c.cfg.Temperature),
			TopP:        float32(c.cfg.TopP),
		},
	)
	if err != nil {
		var apiErr *openai.APIError
		if stderrors.As(err, &apiErr) &&
			(apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden) {
			return "", fmt.Errorf("%w: %v", credential.ErrRejected, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.DebugTag("GenAI", "model %s responded in %v", c.cfg.ModelName, time.Since(start))
	return resp.Choices[0].Message.Content, nil
}
