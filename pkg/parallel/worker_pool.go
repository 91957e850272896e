package parallel

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/urbanmesh/linescout/pkg/logging"
)

// WorkerPool runs independent tasks over a bounded set of goroutines. It wraps
// an ants pool so candidate evaluation stays bounded as batch sizes grow, and
// recovers task panics so one bad candidate cannot take down the run.
type WorkerPool struct {
	pool *ants.Pool
	wg   sync.WaitGroup
}

// ErrPoolClosed is returned by Submit after Release has been called.
var ErrPoolClosed = fmt.Errorf("worker pool is closed")

// NewWorkerPool creates a pool with the given number of workers.
// A non-positive worker count defaults to GOMAXPROCS.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(r any) {
		logging.ErrorLog("worker panic recovered",
			logging.Component("parallel"),
			logging.Any("panic", r),
		)
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &WorkerPool{pool: pool}, nil
}

// Submit schedules a task, blocking if all workers are busy.
func (wp *WorkerPool) Submit(task func()) error {
	if wp.pool.IsClosed() {
		return ErrPoolClosed
	}
	wp.wg.Add(1)
	err := wp.pool.Submit(func() {
		defer wp.wg.Done()
		task()
	})
	if err != nil {
		wp.wg.Done()
		return fmt.Errorf("submit task: %w", err)
	}
	return nil
}

// Wait blocks until every submitted task has finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Running returns the number of currently busy workers.
func (wp *WorkerPool) Running() int {
	return wp.pool.Running()
}

// Cap returns the pool's worker capacity.
func (wp *WorkerPool) Cap() int {
	return wp.pool.Cap()
}

// Release waits for in-flight tasks and shuts the pool down.
func (wp *WorkerPool) Release() {
	wp.wg.Wait()
	wp.pool.Release()
}
