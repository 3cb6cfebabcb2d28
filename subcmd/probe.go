package subcmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mengelbart/termplay"
	"github.com/mengelbart/termplay/cmdmain"
	"github.com/mengelbart/termplay/flags"
	"github.com/mengelbart/termplay/frames"
	"golang.org/x/sync/errgroup"
)

func init() {
	cmdmain.RegisterSubCmd("probe", func() cmdmain.SubCmd { return new(Probe) })
}

type Probe struct{}

// Exec implements cmdmain.SubCmd.
func (p *Probe) Exec(cmd string, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	flags.RegisterInto(fs,
		flags.FramesDirFlag,
		flags.PatternFlag,
		flags.PaletteFlag,
		flags.WidthFlag,
		flags.DitherFlag,
		flags.StartFrameFlag,
		flags.EndFrameFlag,
		flags.FPSFlag,
		flags.MaxDecodersFlag,
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Decode a frame range and report decode latency

Usage:
	%s probe [flags]

Flags:
`, cmd)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
	fs.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	config := flags.PlaybackConfig()
	opts, err := flags.FrameSourceOptions()
	if err != nil {
		return err
	}
	source, err := frames.NewSource(flags.FramesDir, opts...)
	if err != nil {
		return err
	}
	limit := config.MaxDecoders
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	report, err := probe(ctx, source, config.Frames, limit, config.FrameInterval())
	if err != nil {
		return err
	}
	report.print(os.Stdout)
	return nil
}

// Help implements cmdmain.SubCmd.
func (p *Probe) Help() string {
	return "Measure frame decode latency"
}

type probeReport struct {
	frames int
	bytes  uint64
	min    time.Duration
	max    time.Duration
	total  time.Duration
	// slow counts decodes slower than one frame interval
	slow     int
	interval time.Duration
	elapsed  time.Duration
}

func (r *probeReport) add(d time.Duration, size int) {
	if r.frames == 0 || d < r.min {
		r.min = d
	}
	r.max = max(r.max, d)
	r.total += d
	r.frames++
	r.bytes += uint64(size)
	if d > r.interval {
		r.slow++
	}
}

func (r *probeReport) avg() time.Duration {
	if r.frames == 0 {
		return 0
	}
	return r.total / time.Duration(r.frames)
}

func (r *probeReport) print(w io.Writer) {
	fmt.Fprintf(w, `frames:		%d
payload:	%s
decode min:	%v
decode avg:	%v
decode max:	%v
slower than %v:	%d
wall time:	%v
`, r.frames, humanize.Bytes(r.bytes), r.min, r.avg(), r.max, r.interval, r.slow, r.elapsed)
}

// probe decodes every frame in span with at most limit concurrent decodes.
func probe(ctx context.Context, source termplay.FrameSource, span termplay.Range, limit int, interval time.Duration) (*probeReport, error) {
	report := &probeReport{interval: interval}
	var lock sync.Mutex

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i := span.First; i <= span.Last; i++ {
		eg.Go(func() error {
			t := time.Now()
			payload, err := source.Frame(ctx, i)
			if err != nil {
				return err
			}
			d := time.Since(t)
			slog.Debug("decoded frame", "frame", i, "latency", d, "size", len(payload))

			lock.Lock()
			defer lock.Unlock()
			report.add(d, len(payload))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	report.elapsed = time.Since(start)
	return report, nil
}
