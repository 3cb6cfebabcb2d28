package playback

import "time"

// FrameEvent describes one displayed frame.
type FrameEvent struct {
	Step
	// Wait is the time spent blocked on the frame's decode.
	Wait  time.Duration
	Sleep time.Duration
	Bytes int
	// Shown is the time the frame was handed to the sink.
	Shown time.Time
}

// Observer is notified about state transitions and displayed frames. It is
// called from the playback goroutine and must not block.
type Observer interface {
	OnState(State)
	OnFrame(FrameEvent)
}

type nopObserver struct{}

func (nopObserver) OnState(State)      {}
func (nopObserver) OnFrame(FrameEvent) {}

type multiObserver []Observer

func (m multiObserver) OnState(s State) {
	for _, o := range m {
		o.OnState(s)
	}
}

func (m multiObserver) OnFrame(e FrameEvent) {
	for _, o := range m {
		o.OnFrame(e)
	}
}

// Observers combines observers into one.
func Observers(obs ...Observer) Observer {
	switch len(obs) {
	case 0:
		return nopObserver{}
	case 1:
		return obs[0]
	}
	return multiObserver(obs)
}
