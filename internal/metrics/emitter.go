package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultEmitTimeout bounds a single sink submission.
const DefaultEmitTimeout = 2 * time.Second

// Emitter submits data to a Sink without blocking the caller.
// Sink failures are logged and swallowed.
type Emitter struct {
	sink      Sink
	namespace string
	timeout   time.Duration
	logger    *slog.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewEmitter creates an Emitter. A non-positive timeout uses DefaultEmitTimeout.
func NewEmitter(sink Sink, namespace string, timeout time.Duration, logger *slog.Logger) *Emitter {
	if sink == nil {
		sink = NewNoop()
	}
	if timeout <= 0 {
		timeout = DefaultEmitTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		sink:      sink,
		namespace: namespace,
		timeout:   timeout,
		logger:    logger.With("component", "metrics.emitter"),
	}
}

// Emit submits data asynchronously. Calls after Close are dropped.
func (e *Emitter) Emit(data ...Datum) {
	if len(data) == 0 {
		return
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		e.logger.Debug("emitter closed, dropping metrics", slog.Int("count", len(data)))
		return
	}
	e.wg.Add(1)
	e.mu.RUnlock()

	go func() {
		defer e.wg.Done()
		e.put(data)
	}()
}

func (e *Emitter) put(data []Datum) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := e.sink.PutMetricData(ctx, e.namespace, data); err != nil {
		e.logger.Warn("failed to submit metrics",
			slog.String("namespace", e.namespace),
			slog.String("metric", data[0].Name),
			slog.Int("count", len(data)),
			slog.String("error", err.Error()),
		)
	}
}

// Flush waits for in-flight submissions.
func (e *Emitter) Flush() {
	e.wg.Wait()
}

// Close stops accepting data and waits for in-flight submissions or ctx expiry.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
