package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Worker processes a single item. index is the item's position in the
// slice passed to Run.
type Worker[T, R any] func(ctx context.Context, item T, index int) (R, error)

// Run invokes worker once for every item with at most concurrency
// invocations in flight, and returns one Outcome per item ordered by index.
//
// Worker errors and panics are captured in the matching Outcome and never
// stop other items. The only errors Run itself returns are configuration
// errors (ErrInvalidConcurrency, ErrNilWorker), reported before any item is
// touched. An empty items slice returns an empty result without calling the
// worker or the progress callback.
func Run[T, R any](
	ctx context.Context,
	items []T,
	worker Worker[T, R],
	concurrency int,
	opts ...Option,
) ([]Outcome[R], error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	if worker == nil {
		return nil, ErrNilWorker
	}

	options := applyOptions(opts)
	outcomes := make([]Outcome[R], len(items))
	if len(items) == 0 {
		return outcomes, nil
	}

	r := &runState[T, R]{
		items:    items,
		worker:   worker,
		outcomes: outcomes,
		progress: options.progress,
		logger:   options.logger,
	}

	options.logger.DebugContext(ctx, "starting batch run",
		"items", len(items),
		"concurrency", concurrency,
		"strategy", options.strategy.String())

	switch options.strategy {
	case Pipelined:
		r.runPipelined(ctx, concurrency)
	default:
		r.runWaves(ctx, concurrency)
	}

	// Slots are written by index already; sorting keeps the ordering
	// guarantee independent of how the strategies fill the slice.
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})

	return outcomes, nil
}

// runState is scoped to a single Run call.
type runState[T, R any] struct {
	items    []T
	worker   Worker[T, R]
	outcomes []Outcome[R]
	progress ProgressFunc
	logger   *slog.Logger

	mu        sync.Mutex
	completed int
}

// runWaves processes consecutive chunks of size k, waiting for each chunk
// to finish before starting the next.
func (r *runState[T, R]) runWaves(ctx context.Context, k int) {
	for start := 0; start < len(r.items); start += k {
		end := min(start+k, len(r.items))

		var wg conc.WaitGroup
		for i := start; i < end; i++ {
			wg.Go(func() {
				r.process(ctx, i)
			})
		}
		wg.Wait()
	}
}

// runPipelined keeps up to k items running, starting a new one whenever a
// slot frees up.
func (r *runState[T, R]) runPipelined(ctx context.Context, k int) {
	p := pool.New().WithMaxGoroutines(k)
	for i := range r.items {
		p.Go(func() {
			r.process(ctx, i)
		})
	}
	p.Wait()
}

// process runs the worker for item i and records its outcome in slot i.
func (r *runState[T, R]) process(ctx context.Context, i int) {
	var (
		value R
		err   error
		pc    panics.Catcher
	)
	pc.Try(func() {
		value, err = r.worker(ctx, r.items[i], i)
	})

	outcome := Outcome[R]{Index: i}
	switch {
	case pc.Recovered() != nil:
		outcome.Err = fromRecovered(pc.Recovered())
	case err != nil:
		outcome.Err = newErrorInfo(err)
	default:
		outcome.Value = value
	}
	r.outcomes[i] = outcome

	r.reportProgress(ctx)
}

// reportProgress increments the completed counter and invokes the progress
// callback. Calls are serialized so completed is strictly increasing from
// the callback's point of view.
func (r *runState[T, R]) reportProgress(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completed++
	if r.progress == nil {
		return
	}

	var pc panics.Catcher
	pc.Try(func() {
		r.progress(r.completed, len(r.items))
	})
	if rec := pc.Recovered(); rec != nil {
		r.logger.ErrorContext(ctx, "progress callback failed",
			"completed", r.completed,
			"total", len(r.items),
			"error", fmt.Sprintf("%v", rec.Value))
	}
}
