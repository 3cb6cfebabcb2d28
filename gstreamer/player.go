// Package gstreamer plays audio tracks with a GStreamer playbin.
package gstreamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/go-gst/go-glib/glib"
	"github.com/go-gst/go-gst/gst"
)

var initOnce sync.Once

type PlayerOption func(*Player) error

// Volume sets the playback volume, 1.0 is 100%.
func Volume(v float64) PlayerOption {
	return func(p *Player) error {
		if v < 0 || v > 10 {
			return fmt.Errorf("invalid volume: %v", v)
		}
		p.properties["volume"] = v
		return nil
	}
}

func PlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) error {
		p.logger = logger
		return nil
	}
}

// Player implements termplay.AudioPlayer. Started is closed when the
// playbin reaches the PLAYING state, Ended on end of stream or error.
type Player struct {
	location   string
	properties map[string]any
	logger     *slog.Logger

	playbin  *gst.Element
	mainloop *glib.MainLoop

	started   chan struct{}
	ended     chan struct{}
	startOnce sync.Once
	endOnce   sync.Once
	closeOnce sync.Once

	lock sync.Mutex
	err  error
}

func NewPlayer(location string, opts ...PlayerOption) (*Player, error) {
	initOnce.Do(func() { gst.Init(nil) })

	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	p := &Player{
		location:   location,
		properties: map[string]any{},
		logger:     slog.Default().With("component", "audio"),
		started:    make(chan struct{}),
		ended:      make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.properties["uri"] = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	p.playbin, err = gst.NewElementWithProperties("playbin", p.properties)
	if err != nil {
		return nil, fmt.Errorf("failed to create playbin: %w", err)
	}
	p.mainloop = glib.NewMainLoop(glib.MainContextDefault(), false)
	p.playbin.GetBus().AddWatch(p.handleMessage)
	return p, nil
}

func (p *Player) handleMessage(msg *gst.Message) bool {
	switch msg.Type() {
	case gst.MessageStateChanged:
		if msg.Source() != p.playbin.GetName() {
			return true
		}
		_, state := msg.ParseStateChanged()
		if state == gst.StatePlaying {
			p.startOnce.Do(func() {
				p.logger.Info("audio playing", "location", p.location)
				close(p.started)
			})
		}
	case gst.MessageEOS:
		p.logger.Info("audio ended", "location", p.location)
		p.finish(nil)
	case gst.MessageError:
		gerr := msg.ParseError()
		p.logger.Error("audio playback failed", "error", gerr.Error(), "debug", gerr.DebugString())
		p.finish(errors.New(gerr.Error()))
	}
	return true
}

func (p *Player) finish(err error) {
	p.lock.Lock()
	if p.err == nil {
		p.err = err
	}
	p.lock.Unlock()
	p.endOnce.Do(func() { close(p.ended) })
}

// Play starts the main loop and requests the PLAYING state. It returns
// before audio output starts.
func (p *Player) Play(ctx context.Context) error {
	go p.mainloop.Run()
	if err := p.playbin.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("failed to start playbin for %v: %w", p.location, err)
	}
	go func() {
		select {
		case <-ctx.Done():
			p.finish(ctx.Err())
		case <-p.ended:
		}
	}()
	return nil
}

func (p *Player) Started() <-chan struct{} {
	return p.started
}

func (p *Player) Ended() <-chan struct{} {
	return p.ended
}

func (p *Player) Err() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.err
}

// Close stops playback and releases the pipeline.
func (p *Player) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.playbin.BlockSetState(gst.StateNull)
		p.mainloop.Quit()
		p.finish(nil)
	})
	return err
}
