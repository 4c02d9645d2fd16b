package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocal_ExclusiveNeverOverlaps(t *testing.T) {
	l := NewLocal()
	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Exclusive(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), peak)
}

func TestLocal_SharedWaitsForExclusive(t *testing.T) {
	l := NewLocal()
	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.Exclusive(context.Background(), func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	done := make(chan struct{})
	go func() {
		_ = l.Shared(context.Background(), func(context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("shared call ran while exclusive call was active")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-done
}

func TestLocal_CancelledContextSkipsCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewLocal().Exclusive(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
