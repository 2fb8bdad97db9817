package livequery

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBinding(t *testing.T) {
	t.Run("StartsDormant", func(t *testing.T) {
		binding := NewBinding(context.Background(), func(ctx context.Context) (int, error) {
			return 42, nil
		})
		defer binding.Close()

		if binding.State() != Dormant {
			t.Errorf("expected Dormant, got %s", binding.State())
		}
	})

	t.Run("BelowThresholdStaysDormant", func(t *testing.T) {
		var calls atomic.Int32
		binding := NewBinding(context.Background(), func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 42, nil
		})
		defer binding.Close()

		binding.Observe(VisibilityEvent{Intersecting: true, Ratio: 0.49})
		binding.Observe(VisibilityEvent{Intersecting: false, Ratio: 0.9})

		if binding.State() != Dormant {
			t.Errorf("expected Dormant, got %s", binding.State())
		}
		if calls.Load() != 0 {
			t.Errorf("expected query suppressed, got %d calls", calls.Load())
		}
	})

	t.Run("ThresholdArmsAndPublishes", func(t *testing.T) {
		binding := NewBinding(context.Background(), func(ctx context.Context) (string, error) {
			return "result", nil
		})
		defer binding.Close()

		binding.Observe(VisibilityEvent{Intersecting: true, Ratio: 0.5})

		if binding.State() != Armed {
			t.Errorf("expected Armed, got %s", binding.State())
		}

		select {
		case result := <-binding.Results():
			if result.Err != nil {
				t.Fatalf("unexpected error: %v", result.Err)
			}
			if result.Value != "result" {
				t.Errorf("expected 'result', got %q", result.Value)
			}
		case <-time.After(time.Second):
			t.Fatal("expected published result")
		}
	})

	t.Run("ArmsExactlyOnce", func(t *testing.T) {
		var calls atomic.Int32
		binding := NewBinding(context.Background(), func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 1, nil
		})
		defer binding.Close()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				binding.Observe(VisibilityEvent{Intersecting: true, Ratio: 1.0})
			}()
		}
		wg.Wait()

		<-binding.Results()

		if calls.Load() != 1 {
			t.Errorf("expected exactly one query, got %d", calls.Load())
		}
	})

	t.Run("ArmingIsTerminal", func(t *testing.T) {
		binding := NewBinding(context.Background(), func(ctx context.Context) (int, error) {
			return 7, nil
		})
		defer binding.Close()

		binding.Observe(VisibilityEvent{Intersecting: true, Ratio: 0.8})
		<-binding.Results()

		// Scrolling away must not re-gate the subscription.
		binding.Observe(VisibilityEvent{Intersecting: false, Ratio: 0})
		if binding.State() != Armed {
			t.Errorf("expected binding to stay Armed, got %s", binding.State())
		}

		select {
		case _, open := <-binding.Results():
			if !open {
				t.Error("expected results channel to stay open")
			}
		default:
		}
	})

	t.Run("CloseReleasesQuery", func(t *testing.T) {
		started := make(chan struct{})
		binding := NewBinding(context.Background(), func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})

		binding.Observe(VisibilityEvent{Intersecting: true, Ratio: 1.0})
		<-started
		binding.Close()

		select {
		case result := <-binding.Results():
			if result.Err == nil {
				t.Error("expected cancellation error")
			}
		case <-time.After(time.Second):
			// run() may skip publishing entirely once the context is done.
		}
	})
}
