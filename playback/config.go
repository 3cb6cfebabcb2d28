package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/mengelbart/termplay"
)

// Config holds the fixed parameters of one playback run.
type Config struct {
	Frames termplay.Range
	FPS    float64

	// PrefetchSpan is the number of frames scheduled ahead of the current
	// frame.
	PrefetchSpan int
	// InitialBuffer is the number of leading frames that must be decoded
	// before playback starts.
	InitialBuffer int

	// LagTolerance is the frame lag, in frame intervals, that is accepted
	// before catch-up kicks in.
	LagTolerance float64
	// MaxCatchUp bounds the catch-up per frame, in frame intervals.
	MaxCatchUp float64

	// DecodeTimeout bounds the wait for a single decode. 0 waits forever.
	DecodeTimeout time.Duration
	// MaxDecoders caps concurrent decodes. 0 leaves the prefetch window as
	// the only bound.
	MaxDecoders int
}

func DefaultConfig() Config {
	fps := 30
	return Config{
		Frames:        termplay.Range{First: 1, Last: 6570},
		FPS:           float64(fps),
		PrefetchSpan:  fps * 3,
		InitialBuffer: fps,
		LagTolerance:  0.5,
		MaxCatchUp:    2,
		DecodeTimeout: 0,
		MaxDecoders:   0,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Frames.Len() == 0 {
		errs = append(errs, fmt.Errorf("empty frame range %v", c.Frames))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %v", c.FPS))
	}
	if c.PrefetchSpan < 0 {
		errs = append(errs, fmt.Errorf("prefetch span must not be negative, got %v", c.PrefetchSpan))
	}
	if c.InitialBuffer < 0 {
		errs = append(errs, fmt.Errorf("initial buffer must not be negative, got %v", c.InitialBuffer))
	}
	if c.InitialBuffer > c.PrefetchSpan+1 {
		errs = append(errs, fmt.Errorf("initial buffer (%v) exceeds the prefetch window (%v)", c.InitialBuffer, c.PrefetchSpan+1))
	}
	if c.LagTolerance < 0 {
		errs = append(errs, fmt.Errorf("lag tolerance must not be negative, got %v", c.LagTolerance))
	}
	if c.MaxCatchUp < 0 {
		errs = append(errs, fmt.Errorf("max catch-up must not be negative, got %v", c.MaxCatchUp))
	}
	if c.DecodeTimeout < 0 {
		errs = append(errs, fmt.Errorf("decode timeout must not be negative, got %v", c.DecodeTimeout))
	}
	if c.MaxDecoders < 0 {
		errs = append(errs, fmt.Errorf("max decoders must not be negative, got %v", c.MaxDecoders))
	}
	return errors.Join(errs...)
}

// FrameInterval returns the nominal display time of one frame.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}
