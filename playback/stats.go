package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mengelbart/termplay"
)

// Snapshot is a point-in-time view of a playback run.
type Snapshot struct {
	State        State          `json:"state"`
	Frame        termplay.Index `json:"frame"`
	Displayed    int            `json:"displayed"`
	Total        int            `json:"total"`
	Bytes        uint64         `json:"bytes"`
	CatchUps     int            `json:"catch_ups"`
	MaxFrameLag  float64        `json:"max_frame_lag"`
	TotalCatchUp time.Duration  `json:"total_catch_up_ns"`
	MaxWait      time.Duration  `json:"max_wait_ns"`
	Elapsed      time.Duration  `json:"elapsed_ns"`
}

// Stats is an Observer that aggregates playback statistics. It is safe for
// concurrent use.
type Stats struct {
	lock sync.Mutex
	snap Snapshot
}

func NewStats(frames termplay.Range) *Stats {
	return &Stats{
		snap: Snapshot{
			State: Idle,
			Total: frames.Len(),
		},
	}
}

func (s *Stats) OnState(state State) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snap.State = state
}

func (s *Stats) OnFrame(e FrameEvent) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snap.Frame = e.Frame
	s.snap.Displayed++
	s.snap.Bytes += uint64(e.Bytes)
	s.snap.Elapsed = e.Elapsed
	s.snap.MaxFrameLag = max(s.snap.MaxFrameLag, e.FrameLag)
	s.snap.MaxWait = max(s.snap.MaxWait, e.Wait)
	if e.CatchUp > 0 {
		s.snap.CatchUps++
		s.snap.TotalCatchUp += e.CatchUp
	}
}

func (s *Stats) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.snap
}

// Summary logs the aggregated statistics to logger.
func (s *Stats) Summary(logger *slog.Logger) {
	snap := s.Snapshot()
	logger.Info("playback summary",
		"state", snap.State,
		"displayed", snap.Displayed,
		"total", snap.Total,
		"written", humanize.Bytes(snap.Bytes),
		"elapsed", durafmt.Parse(snap.Elapsed).LimitFirstN(3).String(),
		"catch-ups", snap.CatchUps,
		"total-catch-up", snap.TotalCatchUp,
		"max-frame-lag", snap.MaxFrameLag,
		"max-decode-wait", snap.MaxWait,
	)
}
