package latency

import (
	"context"
	"time"
)

// Simulator gates service operations behind configurable delays so the demo
// deployment keeps the fetch/loading behavior the dashboard UI was built
// against. A nil or zero-valued Simulator waits for nothing, which is what
// tests use.
type Simulator struct {
	ReadDelay  time.Duration
	WriteDelay time.Duration
}

// Read suspends the caller for the configured read delay.
func (s *Simulator) Read(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return wait(ctx, s.ReadDelay)
}

// Write suspends the caller for the configured write delay.
func (s *Simulator) Write(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return wait(ctx, s.WriteDelay)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
