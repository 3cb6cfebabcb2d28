package playback

import (
	"context"

	"github.com/mengelbart/termplay"
	"golang.org/x/sync/errgroup"
)

// Warmup fills the prefetch window and waits until the leading frames are
// decoded, so that playback starts with a cushion of ready frames.
type Warmup struct {
	store    *Store
	prefetch *Prefetcher
	frames   termplay.Range
	count    int
}

func NewWarmup(store *Store, prefetch *Prefetcher, frames termplay.Range, count int) *Warmup {
	return &Warmup{
		store:    store,
		prefetch: prefetch,
		frames:   frames,
		count:    count,
	}
}

// Buffer returns the frames Run waits for.
func (w *Warmup) Buffer() termplay.Range {
	return termplay.Range{
		First: w.frames.First,
		Last:  min(w.frames.Last, w.frames.First+termplay.Index(w.count)-1),
	}
}

func (w *Warmup) Run(ctx context.Context) error {
	w.prefetch.EnsureWindow(w.frames.First)
	buf := w.Buffer()
	eg, ctx := errgroup.WithContext(ctx)
	for i := buf.First; i <= buf.Last; i++ {
		eg.Go(func() error {
			return w.store.Wait(ctx, i)
		})
	}
	return eg.Wait()
}
