package playback

type State int

const (
	Idle State = iota
	Warming
	Playing
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Warming:
		return "warming"
	case Playing:
		return "playing"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
