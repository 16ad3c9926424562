package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONArray pulls a JSON array out of model output that may be
// wrapped in markdown fences or surrounded by commentary. Models are asked
// for bare JSON but routinely add both anyway.
func ExtractJSONArray(content string) ([]any, error) {
	cleaned := stripFences(content)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in model output")
	}

	var out []any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return out, nil
}

// ExtractJSONObject does the same for a single object.
func ExtractJSONObject(content string) (map[string]any, error) {
	cleaned := stripFences(content)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in model output")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return out, nil
}

func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
