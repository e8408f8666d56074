// Package worker runs per-template compressions concurrently. Each worker
// owns one scratch buffer for the duration of a template and returns it to
// the pool on every exit path, so full-resolution reconstruction buffers are
// never shared between in-flight templates.
package worker

import (
	"sync"

	"github.com/kacperjurak/gowavebank"
	"github.com/kacperjurak/gowavebank/pkg/models"
)

// ProcessorFunc compresses one template using the supplied scratch buffer.
// It must be a pure function of the work item apart from the scratch reuse.
type ProcessorFunc func(item models.WorkItem, scratch *gowavebank.Scratch) models.WorkResult

// Options holds configuration for creating a new worker pool.
type Options struct {
	Workers   int
	Processor ProcessorFunc
}

// Pool manages concurrent compression workers.
type Pool struct {
	jobs        chan models.WorkItem
	results     chan models.WorkResult
	workers     int
	scratchPool sync.Pool
	wg          sync.WaitGroup
	processor   ProcessorFunc
}

// New creates and starts a worker pool.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	p := &Pool{
		// Buffered so queueing jobs and draining results do not lock-step
		// with worker progress.
		jobs:      make(chan models.WorkItem, opts.Workers*2),
		results:   make(chan models.WorkResult, opts.Workers*2),
		workers:   opts.Workers,
		processor: opts.Processor,
		scratchPool: sync.Pool{
			New: func() interface{} { return new(gowavebank.Scratch) },
		},
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		scratch := p.scratchPool.Get().(*gowavebank.Scratch)
		result := p.processor(job, scratch)
		p.scratchPool.Put(scratch)
		p.results <- result
	}
}

// Submit queues one template. Blocks when the pool is saturated.
func (p *Pool) Submit(item models.WorkItem) {
	p.jobs <- item
}

// Results returns the channel results arrive on, in completion order.
func (p *Pool) Results() <-chan models.WorkResult {
	return p.results
}

// Shutdown stops accepting jobs and waits for in-flight work to finish.
// Callers must have stopped submitting and must have drained every pending
// result first; a concurrent Submit panics on the closed jobs channel and an
// undrained result blocks the workers forever.
func (p *Pool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}
