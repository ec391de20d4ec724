package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werner-traut/budget/internal/logger"
	"github.com/werner-traut/budget/internal/services"
)

func init() {
	logger.Init("test")
}

type fakeCascader struct {
	calls []time.Time
	err   error
}

func (f *fakeCascader) CascadeAllUsers(_ context.Context, today time.Time) (*services.CascadeRunSummary, error) {
	f.calls = append(f.calls, today)
	if f.err != nil {
		return nil, f.err
	}
	return &services.CascadeRunSummary{Users: 2, Cascaded: 1}, nil
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(&fakeCascader{}, "every night")
	assert.Error(t, err)
}

func TestRunOnce_UsesUTCDay(t *testing.T) {
	fake := &fakeCascader{}
	s, err := New(fake, "5 0 * * *")
	require.NoError(t, err)

	loc := time.FixedZone("UTC+10", 10*60*60)
	s.now = func() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, loc) }

	summary, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Cascaded)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), fake.calls[0])
}

func TestRunOnce_PropagatesFailure(t *testing.T) {
	fake := &fakeCascader{err: errors.New("db down")}
	s, err := New(fake, "5 0 * * *")
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestStartStop(t *testing.T) {
	s, err := New(&fakeCascader{}, "5 0 * * *")
	require.NoError(t, err)

	s.Start()
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
