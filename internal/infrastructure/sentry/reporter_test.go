package sentry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_DisabledWithoutDSN(t *testing.T) {
	r, err := New("", "test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Enabled() {
		t.Fatalf("reporter should be disabled without a DSN")
	}
	r.Capture(context.Background(), errors.New("boom"), map[string]string{"path": "/x"})
	if !r.Flush(time.Millisecond) {
		t.Fatalf("disabled flush should succeed")
	}
}

func TestNilReporterIsSafe(t *testing.T) {
	var r *Reporter
	r.Capture(context.Background(), errors.New("boom"), nil)
	if r.Enabled() || !r.Flush(time.Millisecond) {
		t.Fatalf("nil reporter must behave as disabled")
	}
}
