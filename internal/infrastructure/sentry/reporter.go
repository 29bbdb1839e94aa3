// Package sentry reports unexpected server errors to Sentry.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter sends errors to Sentry. The zero value is disabled and drops
// everything, so callers never need a nil check.
type Reporter struct {
	enabled bool
}

// New initialises the Sentry client. An empty dsn returns a disabled reporter.
func New(dsn, environment, release string) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return &Reporter{}, fmt.Errorf("sentry init: %w", err)
	}
	return &Reporter{enabled: true}, nil
}

func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled
}

// Capture reports err with tags describing the request that failed.
func (r *Reporter) Capture(_ context.Context, err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush waits up to timeout for queued events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
