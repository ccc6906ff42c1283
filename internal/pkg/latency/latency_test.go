package latency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilSimulatorWaitsForNothing(t *testing.T) {
	var s *Simulator
	start := time.Now()
	require.NoError(t, s.Read(context.Background()))
	require.NoError(t, s.Write(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestSimulatorDelays(t *testing.T) {
	s := &Simulator{ReadDelay: 30 * time.Millisecond}
	start := time.Now()
	require.NoError(t, s.Read(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSimulatorHonorsContextCancel(t *testing.T) {
	s := &Simulator{WriteDelay: 5 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := s.Write(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
