// Package flags implements command-line flags for termplay.
//
// The design idea is taken from [upspin.io/flags], but most of the code is
// modified. This package uses a slightly modified version of [RegisterInto] and
// the internal [flags]-map. See [Upspin LICENSE] for upspins copyright and
// license information.
//
// [upspin.io/flags]: https://github.com/upspin/upspin/tree/334f107fe3d98225d7adfbb35b74e066fbca9875/flags
// [Upspin LICENSE]: https://github.com/upspin/upspin/blob/334f107fe3d98225d7adfbb35b74e066fbca9875/LICENSE
package flags

import (
	"flag"
	"fmt"
	"time"

	"github.com/mengelbart/termplay"
	"github.com/mengelbart/termplay/frames"
	"github.com/mengelbart/termplay/playback"
)

type FlagName string

// flag keys
const (
	FramesDirFlag FlagName = "frames-dir"
	PatternFlag   FlagName = "pattern"
	PaletteFlag   FlagName = "palette"
	WidthFlag     FlagName = "width"
	DitherFlag    FlagName = "dither"

	StartFrameFlag FlagName = "start"
	EndFrameFlag   FlagName = "end"
	FPSFlag        FlagName = "fps"

	PrefetchFlag      FlagName = "prefetch"
	InitialBufferFlag FlagName = "initial-buffer"
	LagToleranceFlag  FlagName = "lag-tolerance"
	MaxCatchUpFlag    FlagName = "max-catchup"
	DecodeTimeoutFlag FlagName = "decode-timeout"
	MaxDecodersFlag   FlagName = "max-decoders"

	AudioFlag  FlagName = "audio"
	VolumeFlag FlagName = "volume"

	StatusAddrFlag FlagName = "status-addr"
)

var defaults = playback.DefaultConfig()

// Flag vars
var (
	// FramesDir is the directory holding the frame images
	FramesDir = "frames"
	Pattern   = frames.DefaultPattern
	Palette   = frames.Mono.String()
	Width     = 0
	Dither    = false

	StartFrame = int(defaults.Frames.First)
	EndFrame   = int(defaults.Frames.Last)
	FPS        = defaults.FPS

	Prefetch      = defaults.PrefetchSpan
	InitialBuffer = defaults.InitialBuffer
	LagTolerance  = defaults.LagTolerance
	MaxCatchUp    = defaults.MaxCatchUp
	DecodeTimeout = 10 * time.Second
	MaxDecoders   = defaults.MaxDecoders

	// Audio is the audio track, empty plays without sound
	Audio  = "bgm.aac"
	Volume = 1.0

	// StatusAddr is the status API address, empty disables the API
	StatusAddr = ""
)

type flagVar func(*flag.FlagSet)

func stringVar(p *string, name FlagName, defaultValue *string, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.StringVar(p, string(name), *defaultValue, usage)
	}
}

func intVar(p *int, name FlagName, defaultValue *int, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.IntVar(p, string(name), *defaultValue, usage)
	}
}

func float64Var(p *float64, name FlagName, defaultValue *float64, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.Float64Var(p, string(name), *defaultValue, usage)
	}
}

func durationVar(p *time.Duration, name FlagName, defaultValue *time.Duration, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.DurationVar(p, string(name), *defaultValue, usage)
	}
}

func boolVar(p *bool, name FlagName, defaultValue *bool, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.BoolVar(p, string(name), *defaultValue, usage)
	}
}

var flags = map[FlagName]flagVar{
	// Frame source flags
	FramesDirFlag: stringVar(&FramesDir, FramesDirFlag, &FramesDir, "Directory containing the frame images"),
	PatternFlag:   stringVar(&Pattern, PatternFlag, &Pattern, "File name pattern of a frame, formatted with the frame index"),
	PaletteFlag:   stringVar(&Palette, PaletteFlag, &Palette, "Sixel palette (mono, color)"),
	WidthFlag:     intVar(&Width, WidthFlag, &Width, "Scale frames down to this width in pixels, 0 keeps the original size"),
	DitherFlag:    boolVar(&Dither, DitherFlag, &Dither, "Apply Floyd-Steinberg dithering"),

	// Range flags
	StartFrameFlag: intVar(&StartFrame, StartFrameFlag, &StartFrame, "First frame index"),
	EndFrameFlag:   intVar(&EndFrame, EndFrameFlag, &EndFrame, "Last frame index (inclusive)"),
	FPSFlag:        float64Var(&FPS, FPSFlag, &FPS, "Target frame rate"),

	// Scheduling flags
	PrefetchFlag:      intVar(&Prefetch, PrefetchFlag, &Prefetch, "Number of frames decoded ahead of the current frame"),
	InitialBufferFlag: intVar(&InitialBuffer, InitialBufferFlag, &InitialBuffer, "Number of frames decoded before playback starts"),
	LagToleranceFlag:  float64Var(&LagTolerance, LagToleranceFlag, &LagTolerance, "Tolerated frame lag in frame intervals before catching up"),
	MaxCatchUpFlag:    float64Var(&MaxCatchUp, MaxCatchUpFlag, &MaxCatchUp, "Maximum catch-up per frame in frame intervals"),
	DecodeTimeoutFlag: durationVar(&DecodeTimeout, DecodeTimeoutFlag, &DecodeTimeout, "Maximum wait for a single frame decode, 0 waits forever"),
	MaxDecodersFlag:   intVar(&MaxDecoders, MaxDecodersFlag, &MaxDecoders, "Maximum concurrent decodes, 0 is bounded by the prefetch window only"),

	// Audio flags
	AudioFlag:  stringVar(&Audio, AudioFlag, &Audio, "Audio track to play along, empty plays without sound"),
	VolumeFlag: float64Var(&Volume, VolumeFlag, &Volume, "Audio volume, 1.0 is 100%"),

	StatusAddrFlag: stringVar(&StatusAddr, StatusAddrFlag, &StatusAddr, "Address of the HTTP status API, empty disables it"),
}

func RegisterInto(fs *flag.FlagSet, names ...FlagName) {
	if len(names) == 0 {
		for _, f := range flags {
			f(fs)
		}
	} else {
		for _, n := range names {
			f, ok := flags[n]
			if !ok {
				panic(fmt.Sprintf("unknown flag: %q", n))
			}
			f(fs)
		}
	}
}

// PlaybackConfig returns the playback configuration set by the flags.
func PlaybackConfig() playback.Config {
	return playback.Config{
		Frames: termplay.Range{
			First: termplay.Index(StartFrame),
			Last:  termplay.Index(EndFrame),
		},
		FPS:           FPS,
		PrefetchSpan:  Prefetch,
		InitialBuffer: InitialBuffer,
		LagTolerance:  LagTolerance,
		MaxCatchUp:    MaxCatchUp,
		DecodeTimeout: DecodeTimeout,
		MaxDecoders:   MaxDecoders,
	}
}

// FrameSourceOptions returns the frame source options set by the flags.
func FrameSourceOptions() ([]frames.Option, error) {
	palette, err := frames.ParsePalette(Palette)
	if err != nil {
		return nil, err
	}
	return []frames.Option{
		frames.Pattern(Pattern),
		frames.WithPalette(palette),
		frames.Width(Width),
		frames.Dither(Dither),
	}, nil
}
