package playback

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/mengelbart/termplay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmupWaitsForInitialBuffer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource()
		src.delay[2] = 300 * time.Millisecond
		src.delay[3] = 200 * time.Millisecond
		src.delay[5] = time.Hour
		frames := termplay.Range{First: 1, Last: 10}
		s, err := NewStore(context.Background(), src, frames)
		require.NoError(t, err)
		w := NewWarmup(s, NewPrefetcher(s, frames, 4), frames, 3)

		start := time.Now()
		require.NoError(t, w.Run(context.Background()))
		assert.Equal(t, 300*time.Millisecond, time.Since(start))

		// the whole window is scheduled, nothing is consumed
		for i := termplay.Index(1); i <= 5; i++ {
			assert.True(t, s.Has(i), "frame %d", i)
		}
		assert.False(t, s.Has(6))

		for i := termplay.Index(1); i <= 5; i++ {
			_, err := s.Consume(context.Background(), i)
			require.NoError(t, err)
		}
	})
}

func TestWarmupFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource()
		src.fail[2] = termplay.ErrSourceUnavailable
		frames := termplay.Range{First: 1, Last: 10}
		s, err := NewStore(context.Background(), src, frames)
		require.NoError(t, err)
		w := NewWarmup(s, NewPrefetcher(s, frames, 4), frames, 3)

		err = w.Run(context.Background())
		assert.ErrorIs(t, err, termplay.ErrSourceUnavailable)
	})
}

func TestWarmupBufferClamped(t *testing.T) {
	frames := termplay.Range{First: 1, Last: 3}
	w := NewWarmup(nil, nil, frames, 30)
	assert.Equal(t, termplay.Range{First: 1, Last: 3}, w.Buffer())

	w = NewWarmup(nil, nil, frames, 0)
	assert.Equal(t, 0, w.Buffer().Len())
}
