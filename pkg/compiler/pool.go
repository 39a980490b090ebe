package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// FileJob is a file queued for compilation.
type FileJob struct {
	Path  string
	JobID int
}

// FileResult is the outcome of one FileJob. Exactly one of Result and Err
// is set.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
	JobID  int
}

// WorkerPool compiles queued files on a fixed set of goroutines. Watch mode
// feeds it from file system events; results arrive on Results in
// completion order.
//
// Usage:
//
//	pool := NewWorkerPool(c, 0, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	go func() {
//	    for res := range pool.Results() {
//	        // write res.Result or report res.Err
//	    }
//	}()
//	pool.Submit(FileJob{Path: path})
type WorkerPool struct {
	numWorkers int
	compiler   *Compiler
	jobs       chan FileJob
	results    chan FileResult
	wg         sync.WaitGroup
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool
	nextJobID  atomic.Int64

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool compiling with c. Zero workers means the
// compiler's own worker count.
func NewWorkerPool(c *Compiler, numWorkers int, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = c.workers
	}
	if logger == nil {
		logger = c.logger
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		compiler:   c,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileResult, numWorkers),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. Calling it twice is a no-op.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	res, err := wp.compiler.CompileFile(job.Path)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.logger.Debug("compile failed", "worker_id", workerID, "file", job.Path, "error", err)
	} else {
		wp.jobsProcessed.Add(1)
	}

	select {
	case wp.results <- FileResult{Path: job.Path, Result: res, Err: err, JobID: job.JobID}:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues job, assigning a JobID when it has none. It blocks while
// the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	if job.JobID == 0 {
		job.JobID = int(wp.nextJobID.Add(1))
	}

	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// FinishSubmitting closes the queue so workers exit once it drains.
// Safe to call multiple times.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Wait blocks until all workers have exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop closes the queue, waits for in-flight jobs and closes Results.
// Safe to call multiple times. Results must be drained concurrently or
// Stop may wait for a worker blocked on delivery.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	wp.FinishSubmitting()
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
}
