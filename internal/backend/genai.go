package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cocktailnerd/internal/logging"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI RECOMMENDATION BACKEND
// =============================================================================

const bartenderInstruction = `You are a friendly professional bartender.
Recommend exactly one cocktail that fits the guest's taste preferences and request.
Start with the cocktail name in bold, then a one-sentence description,
then the ingredients with amounts, then short preparation steps.`

// GenAIBackend generates recommendations with Google's Gemini API.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

// NewGenAIBackend creates a new Gemini-backed recommender.
func NewGenAIBackend(ctx context.Context, apiKey, model string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIBackend{client: client, model: model}, nil
}

// Recommend asks the model for a cocktail and wraps its answer in the same
// {"response": ...} shape the REST service returns.
func (g *GenAIBackend) Recommend(ctx context.Context, req Request) (Payload, error) {
	log := logging.Get(logging.CategoryAPI).With(zap.String("request_id", req.ID), zap.String("model", g.model))

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(BuildPrompt(req)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(bartenderInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		log.Warn("generate content failed", zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, &TransportError{Err: errors.New("model returned no text")}
	}
	log.Debug("generated recommendation", zap.Int("chars", len(text)))

	data, err := json.Marshal(map[string]string{"response": text, "status": "success"})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return Payload(data), nil
}

// BuildPrompt renders the user turn for a recommendation request.
func BuildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Taste preferences: ")
	if len(req.Tags) == 0 {
		sb.WriteString("none given")
	} else {
		sb.WriteString(strings.Join(req.Tags, ", "))
	}
	sb.WriteString("\nRequest: ")
	sb.WriteString(req.Query)
	return sb.String()
}
