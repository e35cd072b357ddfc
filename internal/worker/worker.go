package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Task is one unit of dispatch work, typically a single observer's
// notification send.
type Task func(ctx context.Context) error

// Pool runs tasks with bounded concurrency so notification fan-out cannot
// swamp the push channel.
type Pool struct {
	numWorkers int
	tasks      chan Task
	wg         sync.WaitGroup
}

func NewPool(numWorkers, bufferSize int) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan Task, bufferSize),
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			if err := task(ctx); err != nil {
				slog.Error("task failed", "error", err)
			}
		}
	}
}

func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
