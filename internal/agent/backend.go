package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Message roles understood by a Backend.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged turn of a generation exchange.
type Message struct {
	Role    string
	Content string
}

// Backend abstracts the language-generation provider. One call, one textual
// response; a backend error is a hard failure of the call.
type Backend interface {
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// GeminiBackend implements Backend on Google Gemini.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a backend bound to one model.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Invoke sends the exchange in order: the system message becomes the model's
// system instruction, user messages become the content parts.
func (b *GeminiBackend) Invoke(ctx context.Context, messages []Message) (string, error) {
	model := b.client.GenerativeModel(b.model)
	model.SetTemperature(0)

	var parts []genai.Part
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if m.Content != "" {
				model.SystemInstruction = &genai.Content{
					Parts: []genai.Part{genai.Text(m.Content)},
				}
			}
		default:
			parts = append(parts, genai.Text(m.Content))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no user content to send")
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractText(resp)
}

// Close releases the underlying client.
func (b *GeminiBackend) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
