// Package branding turns a raw business idea into a starter brand kit:
// name, tagline, bio, and a placeholder logo the owner can replace later.
package branding

import (
	"context"
	"fmt"
	"strings"

	"github.com/minutelaunch/minutelaunch/internal/ai"
)

type Kit struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Bio     string `json:"bio"`
	LogoURL string `json:"logo_url,omitempty"`
}

type Generator struct {
	client *ai.Client
}

func NewGenerator(client *ai.Client) *Generator {
	return &Generator{client: client}
}

const brandingSystemPrompt = `You are a branding assistant for small businesses.
Respond with a single JSON object and nothing else, with keys:
"name" (a short memorable business name),
"tagline" (under 10 words),
"bio" (2-3 sentences, first person plural, warm and plain).`

// GenerateKit asks the gateway for a brand kit from a free-form idea.
// Missing fields fall back to values derived from the idea itself so the
// wizard always has something to show.
func (g *Generator) GenerateKit(ctx context.Context, idea string) (Kit, error) {
	content, err := g.client.Generate(ctx, brandingSystemPrompt, fmt.Sprintf("Business idea: %s", idea))
	if err != nil {
		return Kit{}, fmt.Errorf("generate branding: %w", err)
	}

	obj, err := ai.ExtractJSONObject(content)
	if err != nil {
		return Kit{}, fmt.Errorf("parse branding: %w", err)
	}

	kit := Kit{
		Name:    stringField(obj, "name"),
		Tagline: stringField(obj, "tagline"),
		Bio:     stringField(obj, "bio"),
	}
	if kit.Name == "" {
		kit.Name = fallbackName(idea)
	}
	return kit, nil
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// fallbackName title-cases the first few words of the idea.
func fallbackName(idea string) string {
	words := strings.Fields(idea)
	if len(words) > 3 {
		words = words[:3]
	}
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	name := strings.Join(words, " ")
	if name == "" {
		name = "My Business"
	}
	return name
}
