// Package recognize serializes access to the OCR engine.
//
// The engine is a single shared resource that is not reentrant-safe, so all
// recognition requests funnel through one worker goroutine: strict FIFO, one
// job in flight at a time. The queue is bounded; once full, callers get
// ErrBusy instead of piling up without backpressure.
package recognize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/italord1/splitbill/internal/ocr"
)

var (
	// ErrBusy is returned when the job queue is full or the recognizer is
	// shut down. The caller keeps ownership of the image file.
	ErrBusy = errors.New("recognizer busy")
)

// Config tunes the recognizer.
type Config struct {
	// QueueSize bounds the number of jobs waiting behind the one in
	// flight. Zero or negative falls back to DefaultQueueSize.
	QueueSize int

	// JobTimeout caps a single recognition call. Zero or negative falls
	// back to DefaultJobTimeout.
	JobTimeout time.Duration

	// Metrics, when non-nil, receives queue depth and job duration
	// observations.
	Metrics *Metrics
}

const (
	DefaultQueueSize  = 16
	DefaultJobTimeout = 30 * time.Second
)

type jobResult struct {
	text string
	err  error
}

type job struct {
	ctx    context.Context
	path   string
	result chan jobResult
}

// Recognizer owns the OCR engine and the single worker that drives it.
type Recognizer struct {
	engine  ocr.Engine
	timeout time.Duration
	metrics *Metrics

	mu     sync.RWMutex
	closed bool
	jobs   chan *job
	done   chan struct{}
}

// New starts the worker goroutine. The recognizer takes ownership of the
// engine and closes it on Close.
func New(engine ocr.Engine, cfg Config) *Recognizer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}

	r := &Recognizer{
		engine:  engine,
		timeout: cfg.JobTimeout,
		metrics: cfg.Metrics,
		jobs:    make(chan *job, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Recognize queues the image at path and blocks until its turn completes.
//
// Ownership contract: once a job is accepted, the recognizer deletes path
// after the recognition call finishes, whatever the outcome; on ErrBusy the
// file was never handed over and the caller must clean it up. If ctx is
// canceled while waiting, the job still runs to completion in the background
// and its file is still removed.
func (r *Recognizer) Recognize(ctx context.Context, path string) (string, error) {
	j := &job{ctx: ctx, path: path, result: make(chan jobResult, 1)}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return "", ErrBusy
	}
	select {
	case r.jobs <- j:
		r.mu.RUnlock()
	default:
		r.mu.RUnlock()
		return "", ErrBusy
	}

	if r.metrics != nil {
		r.metrics.QueueDepth.Inc()
	}

	select {
	case res := <-j.result:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops accepting jobs, waits for queued jobs to drain, and closes the
// engine.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	<-r.done
	return r.engine.Close()
}

func (r *Recognizer) run() {
	defer close(r.done)
	for j := range r.jobs {
		if r.metrics != nil {
			r.metrics.QueueDepth.Dec()
		}
		r.process(j)
	}
}

// process runs exactly one job: recognize, delete the temp file, then
// deliver the result. Deleting before delivery keeps the resource-safety
// contract: the file is gone by the time any response is produced, on every
// exit path including engine panics.
func (r *Recognizer) process(j *job) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(j.ctx, r.timeout)
	text, err := r.invoke(ctx, j.path)
	cancel()

	if rmErr := os.Remove(j.path); rmErr != nil && !os.IsNotExist(rmErr) {
		// Swallowed: a leftover temp file must never mask the primary
		// success or error response.
		slog.Warn("failed to remove temp image", "path", j.path, "error", rmErr)
	}

	if r.metrics != nil {
		r.metrics.JobDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		slog.Warn("recognition failed", "path", j.path, "error", err)
	}

	j.result <- jobResult{text: text, err: err}
}

func (r *Recognizer) invoke(ctx context.Context, path string) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("recognition panic: %v", p)
		}
	}()
	return r.engine.Recognize(ctx, path)
}
