package playback

import (
	"math"
	"time"

	"github.com/mengelbart/termplay"
)

// Step is the timing decision taken for one displayed frame.
type Step struct {
	Frame    termplay.Index
	Elapsed  time.Duration
	Expected float64
	Rendered float64
	// FrameLag is Expected - Rendered in frame intervals.
	FrameLag float64
	CatchUp  time.Duration
	// Next is the target display time of the following frame.
	Next time.Time
}

// Pacer keeps displayed frames on an absolute timeline anchored at the
// start of audio playback. When the loop falls behind, it pulls the next
// target earlier by a bounded catch-up amount instead of sleeping a fixed
// interval.
type Pacer struct {
	first      termplay.Index
	fps        float64
	interval   time.Duration
	tolerance  float64
	maxCatchUp float64

	start   time.Time
	next    time.Time
	hasNext bool
}

func NewPacer(c Config) *Pacer {
	return &Pacer{
		first:      c.Frames.First,
		fps:        c.FPS,
		interval:   c.FrameInterval(),
		tolerance:  c.LagTolerance,
		maxCatchUp: c.MaxCatchUp,
	}
}

// Start resets the timeline to begin at t.
func (p *Pacer) Start(t time.Time) {
	p.start = t
	p.next = time.Time{}
	p.hasNext = false
}

func (p *Pacer) StartTime() time.Time {
	return p.start
}

func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// MaxCatchUp returns the largest catch-up Advance can produce.
func (p *Pacer) MaxCatchUp() time.Duration {
	return p.frames(p.maxCatchUp)
}

// Lead returns how long to wait before displaying the current frame. It is
// never negative: a target that has already passed means show now.
func (p *Pacer) Lead(now time.Time) time.Duration {
	if !p.hasNext {
		return 0
	}
	return max(p.next.Sub(now), 0)
}

// Advance records that frame is displayed at now and computes the target
// for the following frame.
func (p *Pacer) Advance(frame termplay.Index, now time.Time) Step {
	elapsed := now.Sub(p.start)
	rendered := float64(frame-p.first) + 1
	expected := elapsed.Seconds() * p.fps
	lag := expected - rendered

	var catchUp time.Duration
	if lag > p.tolerance {
		catchUp = p.frames(math.Min(lag-p.tolerance, p.maxCatchUp))
	}

	p.next = p.start.Add(p.frames(rendered) - catchUp)
	p.hasNext = true

	return Step{
		Frame:    frame,
		Elapsed:  elapsed,
		Expected: expected,
		Rendered: rendered,
		FrameLag: lag,
		CatchUp:  catchUp,
		Next:     p.next,
	}
}

// frames converts a number of frame intervals into a duration.
func (p *Pacer) frames(n float64) time.Duration {
	return time.Duration(n * float64(time.Second) / p.fps)
}
