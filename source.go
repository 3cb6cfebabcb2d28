package termplay

import "context"

// FrameSource produces the payload for a frame index. Implementations must
// be safe for concurrent use with distinct indices.
type FrameSource interface {
	Frame(ctx context.Context, i Index) (Payload, error)
}

type FrameSourceFunc func(ctx context.Context, i Index) (Payload, error)

func (f FrameSourceFunc) Frame(ctx context.Context, i Index) (Payload, error) {
	return f(ctx, i)
}

// Sink receives displayed frames. Writes must reach the display in call
// order.
type Sink interface {
	WriteFrame(Payload) error
	HideCursor() error
	ShowCursor() error
}
