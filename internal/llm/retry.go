package llm

import (
	"context"
	"time"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/backoff"
)

// retryingClient wraps a Client so transient provider failures are retried
// before they surface to a pipeline stage. Without it a single flaky
// generation call would abort the run or waste a content attempt.
type retryingClient struct {
	inner    Client
	attempts int
	base     time.Duration
}

// WithRetry wraps client so GenerateContent and GenerateJSON retry with
// exponential backoff. GetModel and Close pass through.
func WithRetry(client Client, attempts int, base time.Duration) Client {
	return &retryingClient{inner: client, attempts: attempts, base: base}
}

func (c *retryingClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	var out string
	err := backoff.Retry(ctx, c.attempts, c.base, func(ctx context.Context) error {
		var err error
		out, err = c.inner.GenerateContent(ctx, prompt, tier)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (c *retryingClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	var out string
	err := backoff.Retry(ctx, c.attempts, c.base, func(ctx context.Context) error {
		var err error
		out, err = c.inner.GenerateJSON(ctx, prompt, tier)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (c *retryingClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

func (c *retryingClient) Close() error {
	return c.inner.Close()
}
