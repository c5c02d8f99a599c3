package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work is submitted to a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// DefaultChunk is the number of blocks handed to a worker at a time when
// ForRange is called with a non-positive chunk size.
const DefaultChunk = 64

// WorkerPool is a pool of goroutines for parallel block evaluation.
//
// The pool distributes work items across multiple workers, each with their own
// queue. Workers steal from other workers when their own queue is empty, which
// balances load when blocks inside the set take the full iteration budget
// while blocks outside escape at once.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// queues holds per-worker work queues.
	queues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// submit is held shared while work is queued and exclusively by Close,
	// so done is never closed while a submission is in flight.
	submit sync.RWMutex

	// running indicates whether the pool is accepting work.
	// Written only with submit held exclusively.
	running atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			run(work)
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				run(work)
			}
		}
	}
}

func run(work func()) {
	if work != nil {
		work()
	}
}

// drain executes all remaining work in a queue.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			run(work)
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and waits for all to complete.
// It returns ErrClosed without running anything if the pool is closed.
func (p *WorkerPool) ExecuteAll(work []func()) error {
	if !p.IsRunning() {
		return ErrClosed
	}
	if len(work) == 0 {
		return nil
	}

	var pending sync.WaitGroup
	if err := p.enqueue(work, &pending); err != nil {
		return err
	}
	pending.Wait()
	return nil
}

// enqueue hands every item of work to a worker queue. Workers keep
// consuming until Close holds the submit lock, so a blocked send always
// completes.
func (p *WorkerPool) enqueue(work []func(), pending *sync.WaitGroup) error {
	p.submit.RLock()
	defer p.submit.RUnlock()

	if !p.running.Load() {
		return ErrClosed
	}

	pending.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- func() {
			defer pending.Done()
			fn()
		}
	}
	return nil
}

// ForRange splits [0, n) into contiguous chunks of at most chunk indices and
// calls fn(lo, hi) for each chunk on the pool, returning when all chunks are
// done. A non-positive chunk uses DefaultChunk.
// It returns ErrClosed without calling fn if the pool is closed.
func (p *WorkerPool) ForRange(n, chunk int, fn func(lo, hi int)) error {
	if !p.IsRunning() {
		return ErrClosed
	}
	if n <= 0 {
		return nil
	}
	if chunk <= 0 {
		chunk = DefaultChunk
	}

	work := make([]func(), 0, (n+chunk-1)/chunk)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		work = append(work, func() { fn(lo, hi) })
	}
	return p.ExecuteAll(work)
}

// Close stops accepting work, waits for queued work to complete and then
// stops all workers. Submissions already in progress finish first.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.submit.Lock()
	if !p.running.Load() {
		p.submit.Unlock()
		return
	}
	p.running.Store(false)
	close(p.done)
	p.submit.Unlock()

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
