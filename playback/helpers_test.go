package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mengelbart/termplay"
)

func payloadFor(i termplay.Index) termplay.Payload {
	return termplay.Payload(fmt.Sprintf("frame-%d", i))
}

type fakeSource struct {
	lock  sync.Mutex
	calls map[termplay.Index]int
	delay map[termplay.Index]time.Duration
	fail  map[termplay.Index]error
	block map[termplay.Index]chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls: map[termplay.Index]int{},
		delay: map[termplay.Index]time.Duration{},
		fail:  map[termplay.Index]error{},
		block: map[termplay.Index]chan struct{}{},
	}
}

func (s *fakeSource) Frame(ctx context.Context, i termplay.Index) (termplay.Payload, error) {
	s.lock.Lock()
	s.calls[i]++
	d := s.delay[i]
	err := s.fail[i]
	b := s.block[i]
	s.lock.Unlock()

	if b != nil {
		select {
		case <-b:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d > 0 {
		time.Sleep(d)
	}
	if err != nil {
		return nil, err
	}
	return payloadFor(i), nil
}

func (s *fakeSource) blockOn(i termplay.Index) chan struct{} {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := make(chan struct{})
	s.block[i] = c
	return c
}

func (s *fakeSource) Calls(i termplay.Index) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.calls[i]
}

func (s *fakeSource) TotalCalls() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

type fakeAudio struct {
	startDelay time.Duration
	endEarly   bool
	playErr    error

	started chan struct{}
	ended   chan struct{}
	once    sync.Once
	endOnce sync.Once
	plays   int
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		started: make(chan struct{}),
		ended:   make(chan struct{}),
	}
}

func (a *fakeAudio) Play(ctx context.Context) error {
	a.plays++
	if a.playErr != nil {
		return a.playErr
	}
	if a.endEarly {
		a.endOnce.Do(func() { close(a.ended) })
		return nil
	}
	if a.startDelay > 0 {
		go func() {
			time.Sleep(a.startDelay)
			a.once.Do(func() { close(a.started) })
		}()
		return nil
	}
	a.once.Do(func() { close(a.started) })
	return nil
}

func (a *fakeAudio) Started() <-chan struct{} { return a.started }
func (a *fakeAudio) Ended() <-chan struct{}   { return a.ended }
func (a *fakeAudio) Err() error               { return nil }

func (a *fakeAudio) Close() error {
	a.endOnce.Do(func() { close(a.ended) })
	return nil
}

type recordingSink struct {
	lock     sync.Mutex
	frames   []termplay.Payload
	hidden   bool
	hides    int
	shows    int
	writeErr error
}

func (s *recordingSink) WriteFrame(p termplay.Payload) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.frames = append(s.frames, p)
	return nil
}

func (s *recordingSink) HideCursor() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.hidden = true
	s.hides++
	return nil
}

func (s *recordingSink) ShowCursor() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.hidden = false
	s.shows++
	return nil
}

func (s *recordingSink) Frames() []termplay.Payload {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]termplay.Payload(nil), s.frames...)
}

// frameRecorder is an Observer that keeps every event.
type frameRecorder struct {
	lock   sync.Mutex
	states []State
	events []FrameEvent
}

func (r *frameRecorder) OnState(s State) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.states = append(r.states, s)
}

func (r *frameRecorder) OnFrame(e FrameEvent) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, e)
}

func testConfig(first, last termplay.Index) Config {
	return Config{
		Frames:        termplay.Range{First: first, Last: last},
		FPS:           30,
		PrefetchSpan:  4,
		InitialBuffer: 2,
		LagTolerance:  0.5,
		MaxCatchUp:    2,
	}
}
