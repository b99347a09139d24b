package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dlanger/pcm/internal/paperless"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantSameEntity bool
		wantConfidence float64
		wantErr        bool
	}{
		{
			name:           "bare JSON",
			response:       `{"same_entity": true, "confidence": 0.95, "reasoning": "punctuation variants"}`,
			wantSameEntity: true,
			wantConfidence: 0.95,
		},
		{
			name:           "json code fence",
			response:       "```json\n{\"same_entity\": false, \"confidence\": 0.9, \"reasoning\": \"different companies\"}\n```",
			wantSameEntity: false,
			wantConfidence: 0.9,
		},
		{
			name:           "plain code fence",
			response:       "```\n{\"same_entity\": true, \"confidence\": 0.8}\n```",
			wantSameEntity: true,
			wantConfidence: 0.8,
		},
		{
			name:           "prose around the object",
			response:       "Looking at these names:\n{\"same_entity\": true, \"confidence\": 0.7, \"reasoning\": \"typo\"}\nHope that helps!",
			wantSameEntity: true,
			wantConfidence: 0.7,
		},
		{
			name:     "confidence above range",
			response: `{"same_entity": true, "confidence": 1.5}`,
			wantErr:  true,
		},
		{
			name:     "confidence below range",
			response: `{"same_entity": false, "confidence": -0.1}`,
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
		{
			name:     "no JSON at all",
			response: "I cannot evaluate these names.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := parseVerdict(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseVerdict(%q) succeeded, want error", tt.response)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVerdict: %v", err)
			}
			if verdict.SameEntity != tt.wantSameEntity {
				t.Errorf("SameEntity = %v, want %v", verdict.SameEntity, tt.wantSameEntity)
			}
			if verdict.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", verdict.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestBuildReviewPrompt(t *testing.T) {
	group := []paperless.Correspondent{
		{ID: 1, Name: "John Doe", DocumentCount: 12},
		{ID: 2, Name: "John D. Doe", DocumentCount: 3},
	}

	prompt := buildReviewPrompt(group)

	for _, want := range []string{`"John Doe"`, `"John D. Doe"`, "12 documents", "3 documents", "same_entity"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestReviewGroupRejectsTooSmallGroup(t *testing.T) {
	r := NewReviewer("test-key", "")
	if _, err := r.ReviewGroup(context.Background(), []paperless.Correspondent{{ID: 1, Name: "a"}}); err == nil {
		t.Error("expected error for single-member group")
	}
}

func TestNewReviewerFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewReviewerFromEnv(); err == nil {
		t.Error("expected error when ANTHROPIC_API_KEY is unset")
	}

	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("PCM_AI_MODEL", "claude-test-model")
	r, err := NewReviewerFromEnv()
	if err != nil {
		t.Fatalf("NewReviewerFromEnv: %v", err)
	}
	if r.model != "claude-test-model" {
		t.Errorf("model = %q, want the PCM_AI_MODEL override", r.model)
	}
}

func TestIsRetriableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"rate limit", errors.New("429 Too Many Requests"), true},
		{"server error", errors.New("502 bad gateway"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"auth failure", errors.New("401 unauthorized"), false},
		{"bad request", errors.New("400 invalid request body"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetriableError(tt.err); got != tt.want {
				t.Errorf("isRetriableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
