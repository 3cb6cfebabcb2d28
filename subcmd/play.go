package subcmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mengelbart/termplay"
	"github.com/mengelbart/termplay/audio"
	"github.com/mengelbart/termplay/cmdmain"
	"github.com/mengelbart/termplay/flags"
	"github.com/mengelbart/termplay/frames"
	"github.com/mengelbart/termplay/gstreamer"
	"github.com/mengelbart/termplay/playback"
	"github.com/mengelbart/termplay/status"
	"github.com/mengelbart/termplay/terminal"
	"golang.org/x/sync/errgroup"
)

func init() {
	cmdmain.RegisterSubCmd("play", func() cmdmain.SubCmd { return new(Play) })
}

type Play struct{}

// Exec implements cmdmain.SubCmd.
func (p *Play) Exec(cmd string, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	flags.RegisterInto(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Play a frame sequence in the terminal

Usage:
	%s play [flags]

Flags:
`, cmd)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
	fs.Parse(args)

	if len(fs.Args()) > 0 {
		fmt.Printf("error: unknown extra arguments: %v\n", fs.Args())
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	config := flags.PlaybackConfig()
	if err := config.Validate(); err != nil {
		return err
	}

	opts, err := flags.FrameSourceOptions()
	if err != nil {
		return err
	}
	source, err := frames.NewSource(flags.FramesDir, opts...)
	if err != nil {
		return err
	}

	player, err := newAudioPlayer()
	if err != nil {
		return err
	}
	defer player.Close()

	if !terminal.IsTerminal(os.Stdout) {
		slog.Warn("stdout is not a terminal, writing raw sixel data")
	}
	sink := terminal.NewSink(os.Stdout)

	stats := playback.NewStats(config.Frames)
	loop, err := playback.NewLoop(config, source, player, sink,
		playback.WithObserver(stats),
		playback.WithLogger(slog.Default().With("component", "playback")),
	)
	if err != nil {
		return err
	}

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()
	eg, serveCtx := errgroup.WithContext(serveCtx)
	if flags.StatusAddr != "" {
		ln, err := net.Listen("tcp", flags.StatusAddr)
		if err != nil {
			return err
		}
		api := status.NewAPI(stats)
		eg.Go(func() error {
			return status.Serve(serveCtx, ln, api.Handler())
		})
	}

	err = loop.Run(ctx)
	if err == nil && flags.Audio != "" {
		// let the track play out after the last frame
		select {
		case <-player.Ended():
			err = player.Err()
		case <-ctx.Done():
		}
	}
	stats.Summary(slog.Default())

	stopServe()
	if serveErr := eg.Wait(); serveErr != nil {
		err = errors.Join(err, serveErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newAudioPlayer() (termplay.AudioPlayer, error) {
	if flags.Audio == "" {
		return audio.NewSilent(0), nil
	}
	if _, err := os.Stat(flags.Audio); err != nil {
		return nil, fmt.Errorf("%w: audio: %w", termplay.ErrSourceUnavailable, err)
	}
	return gstreamer.NewPlayer(flags.Audio,
		gstreamer.Volume(flags.Volume),
		gstreamer.PlayerLogger(slog.Default().With("component", "audio")),
	)
}

// Help implements cmdmain.SubCmd.
func (p *Play) Help() string {
	return "Play a frame sequence in sync with an audio track"
}
