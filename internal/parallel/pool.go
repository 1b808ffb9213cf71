// Package parallel provides the goroutine pool behind the software
// counting backend.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool distributes independent counting tasks across a fixed set
// of goroutines. Each worker has its own queue and steals from the
// others when idle, which keeps the load even when boundary rows take
// uneven time (rows crossing the disk edge branch more).
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// workQueues holds per-worker queues. A worker primarily pulls from
	// its own queue but steals from the others when it is empty.
	workQueues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to exit.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// Zero or negative means GOMAXPROCS. Workers start immediately.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Queue depth of a few tasks per worker hides scheduling latency
	// without holding the whole work list in channels at once.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

// worker is the main loop for each goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return

		case task := <-myQueue:
			if task != nil {
				task()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				// Nothing anywhere, block on own queue.
				select {
				case <-p.done:
					p.drainQueue(myQueue)
					return
				case task := <-myQueue:
					if task != nil {
						task()
					}
				}
			}
		}
	}
}

// drainQueue executes all remaining tasks in a queue.
func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case task := <-queue:
			if task != nil {
				task()
			}
		default:
			return
		}
	}
}

// steal takes a task from another worker's queue, or returns nil.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case task := <-p.workQueues[i]:
			return task
		default:
		}
	}
	return nil
}

// ExecuteAll distributes the tasks round-robin across workers and
// blocks until every one has completed. This is the completion barrier
// the counting backend relies on: once ExecuteAll returns, every result
// the tasks wrote is visible to the caller.
//
// If the pool is closed, ExecuteAll is a no-op.
func (p *WorkerPool) ExecuteAll(tasks []func()) {
	if len(tasks) == 0 || !p.running.Load() {
		return
	}

	var completion sync.WaitGroup
	completion.Add(len(tasks))

	for i, fn := range tasks {
		workerID := i % p.workers
		task := fn

		wrapped := func() {
			defer completion.Done()
			task()
		}

		select {
		case p.workQueues[workerID] <- wrapped:
		case <-p.done:
			// Pool is closing; account for the task so Wait returns.
			completion.Done()
		}
	}

	completion.Wait()
}

// Close stops accepting work, waits for queued tasks to finish, and
// stops all workers. Safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
