package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(3, 50)
	pool.Start(context.Background())

	var count atomic.Int64
	for i := 0; i < 20; i++ {
		pool.Submit(func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}
	pool.Stop()

	if got := count.Load(); got != 20 {
		t.Errorf("expected 20 tasks run, got %d", got)
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	pool := NewPool(4, 100)
	pool.Start(context.Background())

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				pool.Submit(func(ctx context.Context) error {
					count.Add(1)
					return nil
				})
			}
		}()
	}
	wg.Wait()
	pool.Stop()

	if got := count.Load(); got != 100 {
		t.Errorf("expected 100 tasks run, got %d", got)
	}
}

func TestPool_FailedTaskDoesNotStopWorkers(t *testing.T) {
	pool := NewPool(1, 10)
	pool.Start(context.Background())

	var count atomic.Int64
	pool.Submit(func(ctx context.Context) error {
		return errors.New("send failed")
	})
	pool.Submit(func(ctx context.Context) error {
		count.Add(1)
		return nil
	})
	pool.Stop()

	if count.Load() != 1 {
		t.Error("task after a failure must still run")
	}
}

func TestPool_StopDrainsQueue(t *testing.T) {
	pool := NewPool(2, 50)
	pool.Start(context.Background())

	var count atomic.Int64
	for i := 0; i < 30; i++ {
		pool.Submit(func(ctx context.Context) error {
			time.Sleep(time.Millisecond)
			count.Add(1)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	if got := count.Load(); got != 30 {
		t.Errorf("Stop must drain queued tasks, ran %d of 30", got)
	}
}

func TestPool_ContextCancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(2, 10)
	pool.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not exit after context cancellation")
	}
}
