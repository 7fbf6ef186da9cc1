package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easytrack/backend/internal/domain"
)

// mockRefresher is a mock Refresher for testing
type mockRefresher struct {
	RefreshFn func(ctx context.Context) (domain.MapSnapshot, error)
}

func (m *mockRefresher) Refresh(ctx context.Context) (domain.MapSnapshot, error) {
	return m.RefreshFn(ctx)
}

func TestRefreshScheduler(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		_, err := NewRefreshScheduler(&mockRefresher{}, "every now and then")

		assert.Error(t, err)
	})

	t.Run("run once refreshes", func(t *testing.T) {
		var calls int32
		s, err := NewRefreshScheduler(&mockRefresher{
			RefreshFn: func(ctx context.Context) (domain.MapSnapshot, error) {
				atomic.AddInt32(&calls, 1)
				return domain.MapSnapshot{}, nil
			},
		}, "@every 5m")
		require.NoError(t, err)

		s.RunOnce()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("run once tolerates failures", func(t *testing.T) {
		for _, failure := range []error{ErrStaleRefresh, errors.New("boom")} {
			s, err := NewRefreshScheduler(&mockRefresher{
				RefreshFn: func(ctx context.Context) (domain.MapSnapshot, error) {
					return domain.MapSnapshot{}, failure
				},
			}, "@every 5m")
			require.NoError(t, err)

			assert.NotPanics(t, s.RunOnce)
		}
	})

	t.Run("fires on schedule and stops", func(t *testing.T) {
		fired := make(chan struct{}, 4)
		s, err := NewRefreshScheduler(&mockRefresher{
			RefreshFn: func(ctx context.Context) (domain.MapSnapshot, error) {
				select {
				case fired <- struct{}{}:
				default:
				}
				return domain.MapSnapshot{}, nil
			},
		}, "@every 1s")
		require.NoError(t, err)

		s.Start()
		defer s.Stop()

		select {
		case <-fired:
		case <-time.After(3 * time.Second):
			t.Fatal("scheduled refresh did not run")
		}
	})
}
