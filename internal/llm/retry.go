package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valpere/threadsmith/internal/ctxlog"
)

// RetryConfig bounds every call made through Retrying.
type RetryConfig struct {
	// Timeout applies per attempt. Zero means no timeout.
	Timeout time.Duration
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int
	RetryDelay  time.Duration
}

// Retrying adds a per-call timeout and bounded retries to a Client.
type Retrying struct {
	next   Client
	config RetryConfig
}

func NewRetrying(next Client, config RetryConfig) *Retrying {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Retrying{next: next, config: config}
}

func (r *Retrying) Complete(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		text, err := r.attempt(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		ctxlog.FromContext(ctx).Warn("completion failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.config.MaxAttempts),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.config.RetryDelay):
		}
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", r.config.MaxAttempts, lastErr)
}

func (r *Retrying) attempt(ctx context.Context, req Request) (string, error) {
	if r.config.Timeout <= 0 {
		return r.next.Complete(ctx, req)
	}
	callCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()
	return r.next.Complete(callCtx, req)
}
