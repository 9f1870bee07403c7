package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicJudge calls the Anthropic Messages API. The API key is read from
// ANTHROPIC_API_KEY by the SDK.
type AnthropicJudge struct {
	client anthropic.Client
	model  string
}

// NewAnthropicJudge creates a judge for the given model.
func NewAnthropicJudge(model string) *AnthropicJudge {
	return &AnthropicJudge{client: anthropic.NewClient(), model: model}
}

// Judge sends the prompt as a single user message and concatenates the text
// blocks of the reply.
func (j *AnthropicJudge) Judge(ctx context.Context, prompt string) (string, error) {
	resp, err := j.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(j.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic reply contained no text")
	}
	return sb.String(), nil
}
