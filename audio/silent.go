// Package audio provides audio players that need no audio backend.
package audio

import (
	"context"
	"sync"
	"time"
)

// Silent is an AudioPlayer without sound. It reports playback as started
// as soon as Play is called and as ended after the configured duration, or
// on Close.
type Silent struct {
	duration time.Duration

	started   chan struct{}
	ended     chan struct{}
	startOnce sync.Once
	endOnce   sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
}

// NewSilent returns a silent player. A duration of 0 never ends on its own.
func NewSilent(duration time.Duration) *Silent {
	return &Silent{
		duration: duration,
		started:  make(chan struct{}),
		ended:    make(chan struct{}),
		stop:     make(chan struct{}),
	}
}

func (s *Silent) Play(ctx context.Context) error {
	s.startOnce.Do(func() {
		close(s.started)
		if s.duration > 0 {
			go s.run(ctx)
		}
	})
	return nil
}

func (s *Silent) run(ctx context.Context) {
	t := time.NewTimer(s.duration)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-s.stop:
	}
	s.end()
}

func (s *Silent) end() {
	s.endOnce.Do(func() { close(s.ended) })
}

func (s *Silent) Started() <-chan struct{} {
	return s.started
}

func (s *Silent) Ended() <-chan struct{} {
	return s.ended
}

func (s *Silent) Err() error {
	return nil
}

func (s *Silent) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.end()
	return nil
}
