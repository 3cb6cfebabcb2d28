package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mengelbart/termplay"
	"golang.org/x/time/rate"
)

type Option func(*Loop) error

func WithClock(c termplay.Clock) Option {
	return func(l *Loop) error {
		l.clock = c
		return nil
	}
}

func WithObserver(o Observer) Option {
	return func(l *Loop) error {
		l.observer = o
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) error {
		l.logger = logger
		return nil
	}
}

// Loop plays the frame range to a sink in lock-step with an audio track.
//
// Frames are displayed strictly in index order. Only their timing is
// adjusted, by a Pacer anchored at the moment audio output starts.
type Loop struct {
	config   Config
	source   termplay.FrameSource
	audio    termplay.AudioPlayer
	sink     termplay.Sink
	clock    termplay.Clock
	observer Observer
	logger   *slog.Logger

	lagLog rate.Sometimes
	state  atomic.Int32
}

func NewLoop(c Config, source termplay.FrameSource, audio termplay.AudioPlayer, sink termplay.Sink, opts ...Option) (*Loop, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid playback config: %w", err)
	}
	l := &Loop{
		config:   c,
		source:   source,
		audio:    audio,
		sink:     sink,
		clock:    termplay.SystemClock{},
		observer: nopObserver{},
		logger:   slog.Default().With("component", "playback"),
		lagLog:   rate.Sometimes{Interval: time.Second},
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
	l.logger.Debug("playback state", "state", s)
	l.observer.OnState(s)
}

// Run warms up the frame store, starts audio and displays every frame of
// the range. Any decode error ends the run. The cursor is shown again on
// every return path once playback has hidden it.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer l.setState(Terminated)

	store, err := NewStore(ctx, l.source, l.config.Frames,
		DecodeTimeout(l.config.DecodeTimeout),
		MaxDecoders(l.config.MaxDecoders),
		StoreLogger(l.logger.With("component", "store")),
	)
	if err != nil {
		return err
	}
	prefetch := NewPrefetcher(store, l.config.Frames, l.config.PrefetchSpan)
	pacer := NewPacer(l.config)

	l.setState(Warming)
	warmup := NewWarmup(store, prefetch, l.config.Frames, l.config.InitialBuffer)
	warmupStart := l.clock.Now()
	if err = warmup.Run(ctx); err != nil {
		return fmt.Errorf("warmup failed: %w", err)
	}
	l.logger.Info("warmup complete", "buffered", warmup.Buffer().Len(), "scheduled", store.Len(), "took", l.clock.Now().Sub(warmupStart))

	if err = l.audio.Play(ctx); err != nil {
		return fmt.Errorf("failed to start audio: %w", err)
	}
	select {
	case <-l.audio.Started():
	case <-l.audio.Ended():
		if aerr := l.audio.Err(); aerr != nil {
			return fmt.Errorf("audio ended before playback started: %w", aerr)
		}
		return errors.New("audio ended before playback started")
	case <-ctx.Done():
		return ctx.Err()
	}
	pacer.Start(l.clock.Now())
	l.setState(Playing)
	l.logger.Info("playback started", "frames", l.config.Frames, "fps", l.config.FPS)

	defer func() {
		if showErr := l.sink.ShowCursor(); showErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to restore cursor: %w", showErr))
		}
	}()
	if err = l.sink.HideCursor(); err != nil {
		return fmt.Errorf("failed to hide cursor: %w", err)
	}

	for frame := l.config.Frames.First; frame <= l.config.Frames.Last; frame++ {
		if err = l.display(ctx, store, prefetch, pacer, frame); err != nil {
			return err
		}
	}
	l.logger.Info("playback complete", "frames", l.config.Frames.Len(), "took", l.clock.Now().Sub(pacer.StartTime()))
	return nil
}

func (l *Loop) display(ctx context.Context, store *Store, prefetch *Prefetcher, pacer *Pacer, frame termplay.Index) error {
	prefetch.EnsureWindow(frame)

	waitStart := l.clock.Now()
	payload, err := store.Consume(ctx, frame)
	if err != nil {
		return err
	}
	ready := l.clock.Now()

	sleep := pacer.Lead(ready)
	if err = l.clock.Sleep(ctx, sleep); err != nil {
		return err
	}

	now := l.clock.Now()
	step := pacer.Advance(frame, now)
	if err = l.sink.WriteFrame(payload); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", frame, err)
	}

	if step.CatchUp > 0 {
		l.lagLog.Do(func() {
			l.logger.Warn("playback behind schedule", "frame", frame, "frame-lag", step.FrameLag, "catch-up", step.CatchUp)
		})
	}
	l.logger.Debug("frame displayed", "frame", frame, "wait", ready.Sub(waitStart), "sleep", sleep, "frame-lag", step.FrameLag, "catch-up", step.CatchUp)
	l.observer.OnFrame(FrameEvent{
		Step:  step,
		Wait:  ready.Sub(waitStart),
		Sleep: sleep,
		Bytes: len(payload),
		Shown: now,
	})
	return nil
}
