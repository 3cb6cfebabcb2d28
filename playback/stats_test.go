package playback

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/mengelbart/termplay"
	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	s := NewStats(termplay.Range{First: 1, Last: 10})
	s.OnState(Playing)
	s.OnFrame(FrameEvent{
		Step:  Step{Frame: 1, FrameLag: -1},
		Wait:  time.Millisecond,
		Bytes: 1000,
	})
	s.OnFrame(FrameEvent{
		Step:  Step{Frame: 2, FrameLag: 1.5, CatchUp: 20 * time.Millisecond, Elapsed: time.Second},
		Wait:  40 * time.Millisecond,
		Bytes: 500,
	})

	snap := s.Snapshot()
	assert.Equal(t, Playing, snap.State)
	assert.Equal(t, termplay.Index(2), snap.Frame)
	assert.Equal(t, 2, snap.Displayed)
	assert.Equal(t, 10, snap.Total)
	assert.Equal(t, uint64(1500), snap.Bytes)
	assert.Equal(t, 1, snap.CatchUps)
	assert.Equal(t, 20*time.Millisecond, snap.TotalCatchUp)
	assert.Equal(t, 1.5, snap.MaxFrameLag)
	assert.Equal(t, 40*time.Millisecond, snap.MaxWait)
	assert.Equal(t, time.Second, snap.Elapsed)

	var buf bytes.Buffer
	s.Summary(slog.New(slog.NewTextHandler(&buf, nil)))
	assert.Contains(t, buf.String(), "playback summary")
	assert.Contains(t, buf.String(), "written=\"1.5 kB\"")
	assert.Contains(t, buf.String(), "state=playing")
}
