package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mengelbart/termplay"
	"golang.org/x/sync/semaphore"
)

type task struct {
	done    chan struct{}
	payload termplay.Payload
	err     error
}

type StoreOption func(*Store) error

// DecodeTimeout bounds how long Consume and Wait block on a single task.
func DecodeTimeout(d time.Duration) StoreOption {
	return func(s *Store) error {
		if d < 0 {
			return fmt.Errorf("invalid decode timeout: %v", d)
		}
		s.timeout = d
		return nil
	}
}

// MaxDecoders caps the number of decodes running at the same time.
func MaxDecoders(n int) StoreOption {
	return func(s *Store) error {
		if n < 0 {
			return fmt.Errorf("invalid decoder limit: %v", n)
		}
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
		return nil
	}
}

func StoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// Store maps frame indices to in-flight or completed decode tasks. It owns
// each task until the task is consumed.
type Store struct {
	ctx     context.Context
	source  termplay.FrameSource
	frames  termplay.Range
	timeout time.Duration
	sem     *semaphore.Weighted
	logger  *slog.Logger

	lock         sync.Mutex
	tasks        map[termplay.Index]*task
	lastConsumed termplay.Index
	decodes      int
}

// NewStore creates a store that decodes frames in frames from source. ctx is
// passed to every decode; tasks are never cancelled individually.
func NewStore(ctx context.Context, source termplay.FrameSource, frames termplay.Range, opts ...StoreOption) (*Store, error) {
	s := &Store{
		ctx:          ctx,
		source:       source,
		frames:       frames,
		timeout:      0,
		sem:          nil,
		logger:       slog.Default().With("component", "store"),
		lock:         sync.Mutex{},
		tasks:        map[termplay.Index]*task{},
		lastConsumed: frames.First - 1,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Schedule starts decoding i unless i is outside the frame range, already
// scheduled or already consumed.
func (s *Store) Schedule(i termplay.Index) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.scheduleLocked(i)
}

func (s *Store) scheduleLocked(i termplay.Index) *task {
	if !s.frames.Contains(i) || i <= s.lastConsumed {
		return nil
	}
	if t, ok := s.tasks[i]; ok {
		return t
	}
	t := &task{
		done: make(chan struct{}),
	}
	s.tasks[i] = t
	s.decodes++
	go s.decode(i, t)
	return t
}

func (s *Store) decode(i termplay.Index, t *task) {
	defer close(t.done)
	if s.sem != nil {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			t.err = &termplay.FrameError{Index: i, Err: err}
			return
		}
		defer s.sem.Release(1)
	}
	start := time.Now()
	payload, err := s.source.Frame(s.ctx, i)
	if err != nil {
		t.err = &termplay.FrameError{Index: i, Err: err}
		return
	}
	t.payload = payload
	s.logger.Debug("decoded frame", "frame", i, "bytes", len(payload), "took", time.Since(start))
}

// Consume blocks until frame i is decoded and removes it from the store.
// An absent index is scheduled first. The entry is removed regardless of
// the outcome.
func (s *Store) Consume(ctx context.Context, i termplay.Index) (termplay.Payload, error) {
	s.lock.Lock()
	if !s.frames.Contains(i) {
		s.lock.Unlock()
		return nil, &termplay.FrameError{Index: i, Err: fmt.Errorf("%w: index outside %v", termplay.ErrSchedulingViolation, s.frames)}
	}
	if i <= s.lastConsumed {
		delete(s.tasks, i)
		last := s.lastConsumed
		s.lock.Unlock()
		if i == last {
			return nil, &termplay.FrameError{Index: i, Err: fmt.Errorf("%w: already consumed", termplay.ErrSchedulingViolation)}
		}
		return nil, &termplay.FrameError{Index: i, Err: fmt.Errorf("%w: consumed out of order after %d", termplay.ErrSchedulingViolation, last)}
	}
	t, ok := s.tasks[i]
	if !ok {
		s.logger.Debug("consuming unscheduled frame", "frame", i)
		t = s.scheduleLocked(i)
	}
	s.lock.Unlock()

	err := s.await(ctx, i, t)

	s.lock.Lock()
	delete(s.tasks, i)
	s.lastConsumed = i
	s.lock.Unlock()

	if err != nil {
		return nil, err
	}
	if t.err != nil {
		return nil, t.err
	}
	return t.payload, nil
}

// Wait blocks until the scheduled frame i is decoded without consuming it.
func (s *Store) Wait(ctx context.Context, i termplay.Index) error {
	s.lock.Lock()
	t, ok := s.tasks[i]
	s.lock.Unlock()
	if !ok {
		return &termplay.FrameError{Index: i, Err: fmt.Errorf("%w: frame not scheduled", termplay.ErrSchedulingViolation)}
	}
	if err := s.await(ctx, i, t); err != nil {
		return err
	}
	return t.err
}

func (s *Store) await(ctx context.Context, i termplay.Index, t *task) error {
	var timeout <-chan time.Time
	if s.timeout > 0 {
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		return &termplay.FrameError{Index: i, Err: fmt.Errorf("%w: no result after %v", termplay.ErrDecodeTimeout, s.timeout)}
	}
}

// Has reports whether a task for i is registered.
func (s *Store) Has(i termplay.Index) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.tasks[i]
	return ok
}

// Len returns the number of registered tasks.
func (s *Store) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.tasks)
}

// Decodes returns the number of decode tasks started so far.
func (s *Store) Decodes() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.decodes
}
