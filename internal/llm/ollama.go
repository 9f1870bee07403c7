package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// OllamaJudge calls a local Ollama generate API.
type OllamaJudge struct {
	client *resty.Client
	model  string
}

// NewOllamaJudge creates a judge against the given base URL.
func NewOllamaJudge(baseURL, model string, timeout time.Duration) *OllamaJudge {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OllamaJudge{client: c, model: model}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Judge posts the prompt to /api/generate requesting a JSON-formatted reply.
func (j *OllamaJudge) Judge(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := j.client.R().
		SetContext(ctx).
		SetBody(&generateRequest{Model: j.model, Prompt: prompt, Stream: false, Format: "json"}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode())
	}
	if out.Response == "" {
		return "", fmt.Errorf("ollama reply contained no text")
	}
	return out.Response, nil
}
