// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oasys-platform/logtap/internal/logging"
)

type countingService struct {
	starts atomic.Int64
}

func (s *countingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return errors.New("transient failure")
	}
}

func TestTreeRestartsFailedService(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), DefaultTreeConfig())
	svc := &countingService{}
	tree.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = tree.Serve(ctx)

	if svc.starts.Load() < 2 {
		t.Errorf("service started %d times, want at least 2 (restart after failure)", svc.starts.Load())
	}
}

func TestTreeStopsOnCancel(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), TreeConfig{})
	svc := &countingService{}
	tree.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tree.Serve(ctx) }()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}
