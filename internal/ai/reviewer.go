// Package ai provides optional AI review of candidate merge groups.
//
// A Reviewer looks at one group of similarly-named correspondents and gives
// a verdict: do these names plausibly refer to the same real-world entity?
// String similarity happily pairs "Deutsche Bahn AG" with "Deutsche Bank AG";
// a language model knows better.
//
// Review is advisory and fail-safe. It runs only when the caller asks for it
// and an API key is configured, and any failure degrades the group to
// "unreviewed" rather than blocking the find or merge flow.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dlanger/pcm/internal/paperless"
)

// ModelDefault is the model used for group review unless PCM_AI_MODEL
// overrides it. Review prompts are small, so one mid-tier model fits every
// call.
const ModelDefault = "claude-sonnet-4-5-20250929"

// reviewMaxTokens bounds the verdict response; a verdict is three fields of
// JSON and never needs more.
const reviewMaxTokens = 1024

// GroupVerdict is the model's judgment on one candidate merge group.
type GroupVerdict struct {
	// SameEntity is true if the group's names plausibly all refer to one
	// real-world person or organization.
	SameEntity bool `json:"same_entity"`

	// Confidence is the model's confidence in the verdict (0.0-1.0).
	Confidence float64 `json:"confidence"`

	// Reasoning explains the verdict in one or two sentences.
	Reasoning string `json:"reasoning,omitempty"`
}

// Validate checks if the verdict has valid values
func (v *GroupVerdict) Validate() error {
	if v.Confidence < 0.0 || v.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0 (got %.2f)", v.Confidence)
	}
	return nil
}

// Reviewer asks the Anthropic API whether a candidate merge group is
// coherent. One Reviewer is safe for sequential reuse across groups.
type Reviewer struct {
	client *anthropic.Client
	model  string
	retry  RetryConfig
}

// NewReviewer builds a reviewer with an explicit API key and model. An empty
// model selects ModelDefault.
func NewReviewer(apiKey, model string) *Reviewer {
	if model == "" {
		model = ModelDefault
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Reviewer{
		client: &client,
		model:  model,
		retry:  DefaultRetryConfig(),
	}
}

// NewReviewerFromEnv builds a reviewer from ANTHROPIC_API_KEY and
// PCM_AI_MODEL. Returns an error when no key is configured; callers treat
// that as "review unavailable", not as a failure.
func NewReviewerFromEnv() (*Reviewer, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	return NewReviewer(apiKey, os.Getenv("PCM_AI_MODEL")), nil
}

// ReviewGroup asks the model whether every member of group names the same
// entity. Transient API errors are retried with exponential backoff; a call
// that still fails, or returns an unparseable or out-of-range verdict,
// yields a nil verdict and an error for the caller to degrade on.
func (r *Reviewer) ReviewGroup(ctx context.Context, group []paperless.Correspondent) (*GroupVerdict, error) {
	if len(group) < 2 {
		return nil, fmt.Errorf("review needs at least 2 correspondents (got %d)", len(group))
	}

	prompt := buildReviewPrompt(group)

	var responseText string
	err := r.retryWithBackoff(ctx, "group_review", func(attemptCtx context.Context) error {
		resp, apiErr := r.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(r.model),
			MaxTokens: reviewMaxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		responseText = ""
		for _, block := range resp.Content {
			if block.Type == "text" {
				responseText += block.Text
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("group review failed: %w", err)
	}

	verdict, err := parseVerdict(responseText)
	if err != nil {
		return nil, fmt.Errorf("group review response: %w", err)
	}
	return verdict, nil
}

// buildReviewPrompt renders one group as a numbered list with document
// counts, which helps the model weigh which spelling is canonical.
func buildReviewPrompt(group []paperless.Correspondent) string {
	var b strings.Builder
	b.WriteString("You are reviewing correspondent records in a document management system.\n")
	b.WriteString("The following correspondent names were flagged as likely duplicates of each other:\n\n")
	for i, c := range group {
		fmt.Fprintf(&b, "%d. %q (%d documents)\n", i+1, c.Name, c.DocumentCount)
	}
	b.WriteString(`
Do ALL of these names plausibly refer to the same real-world person or
organization? Consider abbreviations, punctuation, typos, and legal-form
suffixes. Names that are merely similar spellings of DIFFERENT entities
(e.g. "Deutsche Bahn" vs "Deutsche Bank") are NOT the same entity.

Respond with JSON only:
{"same_entity": true|false, "confidence": 0.0-1.0, "reasoning": "one or two sentences"}
`)
	return b.String()
}
