package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/drywaters/learncards/internal/model"
)

// maxContentRunes bounds how much page text is embedded in the prompt
const maxContentRunes = 8000

const systemPrompt = "You are an expert in creating educational materials for software developers. " +
	"You always respond in JSON only."

var (
	// ErrModelInvocation is returned when the provider call itself fails
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrMalformedResponse is returned when the reply cannot be parsed into a valid result
	ErrMalformedResponse = errors.New("invalid response from provider")
)

// Generator turns page text into a summary and flashcards
type Generator struct {
	provider Provider
}

// New creates a new Generator backed by provider
func New(provider Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate builds the prompt for content, calls the provider once and
// returns the validated result with at most model.MaxCards cards.
func (g *Generator) Generate(ctx context.Context, content string) (*model.GenerationResult, error) {
	prompt := buildPrompt(truncateRunes(content, maxContentRunes))

	reply, err := g.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelInvocation, g.provider.Name(), err)
	}

	slog.Debug("provider response", "provider", g.provider.Name(), "model", g.provider.Model(), "response", reply)

	return parseResponse(reply)
}

func buildPrompt(content string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert in creating educational materials for full-stack developers ")
	sb.WriteString("(TypeScript/React/.NET/CSS/Go).\n\n")
	sb.WriteString("Analyze the article below and complete two tasks:\n")
	sb.WriteString("1. Write a concise summary of the article (2-3 sentences) focused on the most important concepts.\n")
	sb.WriteString("2. Generate 1 to 3 Anki flashcards, depending on the complexity of the topic:\n")
	sb.WriteString("   - Simple topics: 1 flashcard\n")
	sb.WriteString("   - Moderately complex topics: 2 flashcards\n")
	sb.WriteString("   - Complex topics: 3 flashcards\n")
	sb.WriteString("   Each flashcard must contain:\n")
	sb.WriteString("   - front: a question or concept to remember\n")
	sb.WriteString("   - back: a clear, concise answer with a practical example where possible\n\n")
	sb.WriteString("IMPORTANT: Respond ONLY with JSON in this exact format, without any additional commentary:\n")
	sb.WriteString(`{
  "summary": "Article summary...",
  "ankiCards": [
    {
      "front": "Question or concept",
      "back": "Answer with an example"
    }
  ]
}`)
	sb.WriteString("\n\nArticle content:\n")
	sb.WriteString(content)

	return sb.String()
}

// parseResponse unwraps, decodes and validates a provider reply
func parseResponse(reply string) (*model.GenerationResult, error) {
	payload := stripCodeFence(reply)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	var result *model.GenerationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: null result", ErrMalformedResponse)
	}

	cards := make([]model.FlashCard, 0, len(result.Cards))
	for _, card := range result.Cards {
		if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no valid cards", ErrMalformedResponse)
	}

	if len(cards) > model.MaxCards {
		cards = cards[:model.MaxCards]
	}
	result.Cards = cards

	return result, nil
}

// stripCodeFence removes a Markdown code fence the model may wrap JSON in
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// truncateRunes returns at most n runes of s
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
