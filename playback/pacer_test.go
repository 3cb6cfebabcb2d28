package playback

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/mengelbart/termplay"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPacerOnSchedule(t *testing.T) {
	p := NewPacer(testConfig(1, 100))
	interval := p.Interval()
	p.Start(epoch)

	assert.Equal(t, time.Duration(0), p.Lead(epoch))

	step := p.Advance(1, epoch)
	assert.InDelta(t, -1.0, step.FrameLag, 1e-6)
	assert.Equal(t, time.Duration(0), step.CatchUp)
	assert.Equal(t, epoch.Add(interval), step.Next)

	assert.Equal(t, interval, p.Lead(epoch))
	assert.InDelta(t, float64(interval/2), float64(p.Lead(epoch.Add(interval/2))), 1)
}

func TestPacerLeadKeepsTarget(t *testing.T) {
	p := NewPacer(testConfig(1, 100))
	interval := p.Interval()
	p.Start(epoch)
	p.Advance(1, epoch)

	// a late query does not move the target
	assert.Equal(t, time.Duration(0), p.Lead(epoch.Add(2*interval)))
	assert.Equal(t, interval, p.Lead(epoch))
}

func TestPacerBehind(t *testing.T) {
	p := NewPacer(testConfig(1, 100))
	interval := p.Interval()
	p.Start(epoch)
	p.Advance(1, epoch)
	p.Advance(2, epoch.Add(interval))

	// frame 3 shows up three intervals past its slot
	now := epoch.Add(5 * interval)
	assert.Equal(t, time.Duration(0), p.Lead(now))
	step := p.Advance(3, now)
	assert.InDelta(t, 2.0, step.FrameLag, 1e-6)
	assert.InDelta(t, float64(3*interval/2), float64(step.CatchUp), 10)
	assert.Equal(t, epoch.Add(p.frames(3)-step.CatchUp), step.Next)

	assert.Equal(t, time.Duration(0), p.Lead(now))
	step = p.Advance(4, now)
	assert.InDelta(t, 1.0, step.FrameLag, 1e-6)
	assert.InDelta(t, float64(interval/2), float64(step.CatchUp), 10)

	step = p.Advance(5, now)
	assert.Equal(t, time.Duration(0), step.CatchUp)
}

func TestPacerCatchUpCapped(t *testing.T) {
	p := NewPacer(testConfig(1, 100))
	interval := p.Interval()
	p.Start(epoch)

	step := p.Advance(1, epoch.Add(10*interval))
	assert.Equal(t, p.MaxCatchUp(), step.CatchUp)
	assert.InDelta(t, float64(2*interval), float64(step.CatchUp), 10)
}

func TestPacerWithinTolerance(t *testing.T) {
	p := NewPacer(testConfig(1, 100))
	interval := p.Interval()
	p.Start(epoch)

	// lag of 0.4 frames is tolerated
	step := p.Advance(1, epoch.Add(interval+interval*2/5))
	assert.InDelta(t, 0.4, step.FrameLag, 1e-6)
	assert.Equal(t, time.Duration(0), step.CatchUp)
}

func TestPacerStartFrameOffset(t *testing.T) {
	p := NewPacer(testConfig(100, 200))
	interval := p.Interval()
	p.Start(epoch)

	step := p.Advance(100, epoch)
	assert.InDelta(t, -1.0, step.FrameLag, 1e-6)
	assert.Equal(t, epoch.Add(interval), step.Next)
}

func TestPacerStartResets(t *testing.T) {
	p := NewPacer(testConfig(1, 100))
	p.Start(epoch)
	p.Advance(1, epoch)

	later := epoch.Add(time.Minute)
	p.Start(later)
	assert.Equal(t, later, p.StartTime())
	assert.Equal(t, time.Duration(0), p.Lead(later))
}

func TestPacerInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	c := testConfig(1, 1000)
	p := NewPacer(c)
	interval := p.Interval()
	p.Start(epoch)

	now := epoch
	for frame := termplay.Index(1); frame <= 1000; frame++ {
		// decode latency between 0 and 4 intervals
		now = now.Add(time.Duration(r.Int64N(int64(4 * interval))))
		lead := p.Lead(now)
		assert.GreaterOrEqual(t, lead, time.Duration(0))
		now = now.Add(lead)

		step := p.Advance(frame, now)
		assert.GreaterOrEqual(t, step.CatchUp, time.Duration(0))
		assert.LessOrEqual(t, step.CatchUp, time.Duration(c.MaxCatchUp*float64(interval))+1)
	}
}
