package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/salvage-vision/internal/domain/ai"
	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
	"github.com/bryanwahyu/salvage-vision/internal/infra/ai/prompt"
)

const defaultMaxTokens = 8192

// Client talks to any OpenAI-compatible chat-completions gateway. The base
// URL is configurable so a hosted vision gateway can be swapped in without
// code changes.
type Client struct {
	*openai.Client
	Model     string
	MaxTokens int

	configured bool
}

func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		Client:     openai.NewClientWithConfig(cfg),
		Model:      model,
		configured: apiKey != "",
	}
}

// Inspect sends one multimodal request: the full inspection protocol as the
// system message, and a short instruction plus every image as the user
// message. One blocking round trip, no retry.
func (c *Client) Inspect(ctx context.Context, images []*inspection.Image) (string, error) {
	if !c.configured {
		return "", domai.ErrNotConfigured
	}
	model := c.Model
	if model == "" {
		model = "google/gemini-2.5-pro"
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	content := make([]openai.ChatMessagePart, 0, len(images)+1)
	content = append(content, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt.GetUserPrompt(),
	})
	for _, img := range images {
		content = append(content, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: fmt.Sprintf("data:%s;base64,%s", img.MimeType, img.Base64),
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, MultiContent: content},
		},
	}
	// Reasoning model families take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domai.ErrGateway, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domai.ErrGateway)
	}
	return resp.Choices[0].Message.Content, nil
}
