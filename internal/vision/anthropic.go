package vision

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

type AnthropicClassifier struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	usage     *Usage
}

func NewAnthropicClassifier(apiKey, model string, maxTokens int, usage *Usage) *AnthropicClassifier {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicClassifier{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
		usage:     usage,
	}
}

func (a *AnthropicClassifier) Classify(ctx context.Context, imageURL, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: imageURL}),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		log.Printf("vision anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}
	if a.usage != nil {
		a.usage.Add(Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		})
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("vision anthropic response size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
