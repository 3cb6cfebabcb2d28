package playback

import "github.com/mengelbart/termplay"

// Prefetcher keeps a sliding window of upcoming frames scheduled in a Store.
type Prefetcher struct {
	store  *Store
	frames termplay.Range
	span   int
}

func NewPrefetcher(store *Store, frames termplay.Range, span int) *Prefetcher {
	return &Prefetcher{
		store:  store,
		frames: frames,
		span:   span,
	}
}

// Window returns the frames that should be scheduled for anchor.
func (p *Prefetcher) Window(anchor termplay.Index) termplay.Range {
	start := max(anchor, p.frames.First)
	return termplay.Range{
		First: start,
		Last:  min(p.frames.Last, start+termplay.Index(p.span)),
	}
}

// EnsureWindow schedules every frame of the window at anchor. Frames that
// are already scheduled are left alone.
func (p *Prefetcher) EnsureWindow(anchor termplay.Index) termplay.Range {
	w := p.Window(anchor)
	for i := w.First; i <= w.Last; i++ {
		p.store.Schedule(i)
	}
	return w
}
