// Package oracle implements the LLM Oracle Client (C9): a one-shot
// text-in/text-out request against google.golang.org/genai with
// retry-on-rate-limit, modeled on the teacher's Gemini HTTP client retry
// loop (spec.md §4.9).
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// placeholderKey is what labconfig.Load returns when no real credential is
// configured; the oracle must degrade to "unavailable" rather than error.
const placeholderKey = "dummy"

// ErrUnavailable is the connection-error sentinel returned on transport
// failure (spec.md §4.9 "on transport failure, return a connection-error
// sentinel").
var ErrUnavailable = errors.New("oracle: unavailable")

const (
	maxAttempts  = 3
	backoffUnit  = 2 * time.Second
)

// Oracle is the capability interface the Hint Orchestrator depends on.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenAIOracle backs Oracle with Google's Gemini API.
type GenAIOracle struct {
	client *genai.Client
	model  string
}

// NewGenAIOracle builds a GenAIOracle, or a Disabled oracle if apiKey is
// empty or the fixed placeholder. A Disabled oracle returns an empty reply
// with ErrUnavailable on every call.
func NewGenAIOracle(ctx context.Context, apiKey, model string) (Oracle, error) {
	if apiKey == "" || apiKey == placeholderKey {
		return Disabled{}, nil
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GenAIOracle{client: client, model: model}, nil
}

// Complete makes up to three attempts. On a rate-limit response it waits
// attempt*2 seconds and retries; any other non-success fails fast; a
// transport failure returns ErrUnavailable.
func (o *GenAIOracle) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * backoffUnit):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
		resp, err := o.client.Models.GenerateContent(ctx, o.model, contents, nil)
		if err == nil {
			return extractText(resp), nil
		}

		if isRateLimited(err) {
			lastErr = fmt.Errorf("rate limit exceeded: %w", err)
			continue
		}
		if isTransportFailure(err) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	return "", lastErr
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429
	}
	return false
}

func isTransportFailure(err error) bool {
	var apiErr genai.APIError
	return !errors.As(err, &apiErr)
}

// Disabled is the no-credential Oracle: it always reports unavailable so
// the Hint Orchestrator proceeds without a patch (spec.md §4.9).
type Disabled struct{}

func (Disabled) Complete(ctx context.Context, prompt string) (string, error) {
	return "", ErrUnavailable
}
