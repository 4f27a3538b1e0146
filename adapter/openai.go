package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/nirogya/lingo"
)

// OpenAIAdapter translates through OpenAI's chat completion API, for
// deployments without a self-hosted translation engine.
type OpenAIAdapter struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI adapter.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIAdapter creates a new OpenAI adapter.
func NewOpenAIAdapter(cfg OpenAIConfig) *OpenAIAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIAdapter{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate sends one payload as a chat completion.
func (a *OpenAIAdapter) Translate(ctx context.Context, req Request) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: a.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty translation from OpenAI")
	}
	return out, nil
}

func (a *OpenAIAdapter) buildSystemPrompt(req Request) string {
	source := lingo.LanguageName(req.SourceLang)
	target := lingo.LanguageName(req.TargetLang)

	prompt := fmt.Sprintf(`You are a professional translator for a public health application.
Translate the user's message from %s to %s.
Return ONLY the translation, with no explanations or extra text.
Preserve meaningful whitespace, numbers, and placeholders exactly as they appear.
If the message contains the separator sequence "|||", keep every separator in place and translate each segment independently, in order.`, source, target)

	if req.Format == lingo.FormatMarkup {
		prompt += "\nThe message is HTML. Preserve every tag, attribute, and entity exactly; translate only the human-readable text between tags."
	}
	return prompt
}

// Verify OpenAIAdapter implements Adapter
var _ Adapter = (*OpenAIAdapter)(nil)
