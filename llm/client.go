package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shuddl/quizlaw/config"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxAttempts   = 3
	retryBaseWait = 2 * time.Second
	retryMaxWait  = 10 * time.Second
)

// Client wraps the OpenAI chat completion API with per call timeouts and
// retries on transient failures.
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// New builds a client from configuration.
func New(cfg *config.Config) *Client {
	return &Client{
		api:     openai.NewClient(cfg.OpenAIKey),
		timeout: time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	}
}

// Complete requests a plain text completion.
func (c *Client) Complete(ctx context.Context, model, system, prompt string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
		Messages:    buildMessages(system, prompt),
	}
	return c.do(ctx, req)
}

// CompleteJSON requests a completion constrained to a JSON object response.
// A fixed seed keeps repeated generations comparable.
func (c *Client) CompleteJSON(ctx context.Context, model, system, prompt string) (string, error) {
	seed := 42
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.7,
		Seed:        &seed,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: buildMessages(system, prompt),
	}
	return c.do(ctx, req)
}

func buildMessages(system, prompt string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return messages
}

func (c *Client) do(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var lastErr error
	wait := retryBaseWait

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			wait *= 2
			if wait > retryMaxWait {
				wait = retryMaxWait
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		cancel()
		if err != nil {
			lastErr = err
			if isRetryable(err) {
				continue
			}
			return "", err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			lastErr = errors.New("empty completion response")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

// isRetryable treats rate limits, server errors and timeouts as transient.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return errors.Is(err, context.DeadlineExceeded)
}
