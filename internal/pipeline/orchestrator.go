// Package pipeline runs uploaded files through parse, import, shuffle and
// store on a bounded worker pool.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docshuffle/internal/config"
	"github.com/dgallion1/docshuffle/internal/docstore"
	"github.com/dgallion1/docshuffle/internal/importer"
	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/dgallion1/docshuffle/internal/parser"
	"github.com/dgallion1/docshuffle/internal/shuffle"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("pipeline stopped")

// Orchestrator manages the document ingestion pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	schema  *model.Schema
	docs    *docstore.Store
	latency *LatencyStats
	log     *slog.Logger
	cfg     config.Config

	// CleanupInterval is how often expired jobs and documents are evicted.
	CleanupInterval time.Duration

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch the workers.
func NewOrchestrator(cfg config.Config, schema *model.Schema, docs *docstore.Store, latency *LatencyStats, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:            NewJobStore(cfg.JobTTL),
		queue:           make(chan *Job, cfg.MaxQueueSize),
		schema:          schema,
		docs:            docs,
		latency:         latency,
		log:             log,
		cfg:             cfg,
		CleanupInterval: 5 * time.Minute,
	}
}

// sourceFor gives each worker its own source; a seeded source is not safe
// for concurrent use.
func (o *Orchestrator) sourceFor(worker int) shuffle.Source {
	if o.cfg.ShuffleSeed == 0 {
		return shuffle.NewSource(0)
	}
	return shuffle.NewSource(o.cfg.ShuffleSeed + uint64(worker))
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	opts := WorkerOptions{
		Parser: parser.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext},
		Import: importer.Options{MaxChildWords: o.cfg.ImportMaxChildWords},
	}
	for i := range o.cfg.WorkerCount {
		wlog := o.log.With("worker", i)
		w := NewWorker(o.schema, o.docs, o.latency, shuffle.New(o.sourceFor(i), wlog), wlog, opts)
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job and document cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
				if n := o.docs.Cleanup(); n > 0 {
					o.log.Info("evicted expired documents", "count", n)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Documents returns the store jobs write into.
func (o *Orchestrator) Documents() *docstore.Store {
	return o.docs
}

// Latency returns the shuffle latency tracker.
func (o *Orchestrator) Latency() *LatencyStats {
	return o.latency
}
