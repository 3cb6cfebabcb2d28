package termplay

import "context"

// AudioPlayer plays the audio track that the image sequence is synchronized
// to.
//
// Play starts playback asynchronously. Started is closed exactly once, when
// audible output begins; playback timing anchors to that moment and not to
// the return of Play. Ended is closed when the track finished or playback
// failed, after which Close releases the player's resources.
type AudioPlayer interface {
	Play(ctx context.Context) error
	Started() <-chan struct{}
	Ended() <-chan struct{}
	Err() error
	Close() error
}
