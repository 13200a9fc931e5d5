package ai

import (
	"context"
	"fmt"
	"strings"
)

const tutorSystemPrompt = `You are a patient tutor. A student has just finished a quiz and needs help with the topics below.
Explain the core ideas of each topic in plain language, in at most three short paragraphs.
Do not quote the quiz questions and do not give answers to specific questions.`

// Tutor asks a provider to explain the concepts behind a recommendation
// search query.
type Tutor struct {
	provider  Provider
	model     string
	maxTokens int
}

// NewTutor creates a Tutor. An empty model lets the provider choose.
func NewTutor(provider Provider, model string) *Tutor {
	return &Tutor{provider: provider, model: model, maxTokens: 600}
}

// Explain returns a short explanation for query. An empty query yields an
// empty explanation without calling the provider.
func (t *Tutor) Explain(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	resp, err := t.provider.Complete(ctx, CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: tutorSystemPrompt},
			{Role: "user", Content: query},
		},
		Model:       t.model,
		MaxTokens:   t.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
