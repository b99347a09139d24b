package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models are asked for bare JSON but routinely wrap it in code fences or
// surround it with prose. Pre-compiled patterns peel those layers off.
var (
	codeFenceRegex  = regexp.MustCompile("(?s)`{3}(?:json)?\\s*\n?([\\s\\S]*?)\n?`{3}")
	jsonObjectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// parseVerdict extracts a GroupVerdict from a model response, tolerating
// code fences and stray prose around the JSON object. The verdict's value
// ranges are validated before it is returned.
//
// Strategy sequence: direct parse, then with fences stripped, then the
// first-to-last-brace object extracted from mixed content.
func parseVerdict(text string) (*GroupVerdict, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	candidates := []string{trimmed}
	if stripped := stripCodeFences(trimmed); stripped != trimmed {
		candidates = append(candidates, stripped)
	}
	if extracted := jsonObjectRegex.FindString(trimmed); extracted != "" && extracted != trimmed {
		candidates = append(candidates, extracted)
	}

	var lastErr error
	for _, candidate := range candidates {
		var verdict GroupVerdict
		if err := json.Unmarshal([]byte(candidate), &verdict); err != nil {
			lastErr = err
			continue
		}
		if err := verdict.Validate(); err != nil {
			return nil, fmt.Errorf("invalid verdict: %w", err)
		}
		return &verdict, nil
	}

	return nil, fmt.Errorf("no parseable JSON verdict in %q: %w", truncate(text, 200), lastErr)
}

// stripCodeFences removes a markdown code fence wrapper, keeping the fenced
// body.
func stripCodeFences(text string) string {
	return strings.TrimSpace(codeFenceRegex.ReplaceAllString(text, "$1"))
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
