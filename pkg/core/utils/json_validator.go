package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// The advisor asks the model for structured JSON answers, and models reliably
// produce almost-JSON: code fences, single quotes, trailing commas. DecodeLLMJSON
// runs increasingly lenient strategies until one yields the expected schema.

// StripCodeFence removes a wrapping markdown code block, if present.
func StripCodeFence(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// RepairJSON fixes the common structural mistakes in model output: missing
// quotes around keys, single quotes, unclosed objects and trailing commas.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair: %w", err)
	}
	return repaired, nil
}

// DecodeLLMJSON decodes a model response into schema, trying strict JSON,
// then repaired JSON, then Hjson (the most lenient form).
func DecodeLLMJSON(input string, schema any) error {
	cleaned := StripCodeFence(input)

	if err := json.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	if err := hjson.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	return fmt.Errorf("no parsing strategy produced valid JSON for the response")
}
