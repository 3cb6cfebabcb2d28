// Package frames decodes numbered image files into sixel payloads.
package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"strings"

	"github.com/mattn/go-sixel"
	"github.com/mengelbart/termplay"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultPattern names frame files output_0001.png, output_0002.png, ...
const DefaultPattern = "output_%04d.png"

var monochrome = color.Palette{color.Black, color.White}

type Option func(*Source) error

// Pattern sets the fmt pattern that maps a frame index to a file name.
func Pattern(pattern string) Option {
	return func(s *Source) error {
		if strings.Contains(fmt.Sprintf(pattern, 1), "%!") {
			return fmt.Errorf("invalid frame pattern %q: needs exactly one integer verb", pattern)
		}
		s.pattern = pattern
		return nil
	}
}

func WithPalette(p Palette) Option {
	return func(s *Source) error {
		s.palette = p
		return nil
	}
}

// Width scales frames wider than w pixels down to w, keeping the aspect
// ratio. 0 keeps the original size.
func Width(w int) Option {
	return func(s *Source) error {
		if w < 0 {
			return fmt.Errorf("invalid width: %v", w)
		}
		s.width = w
		return nil
	}
}

func Dither(enabled bool) Option {
	return func(s *Source) error {
		s.dither = enabled
		return nil
	}
}

// FS reads frames from fsys instead of the directory passed to NewSource.
func FS(fsys fs.FS) Option {
	return func(s *Source) error {
		s.fsys = fsys
		return nil
	}
}

// Source implements termplay.FrameSource on a directory of numbered image
// files. It is safe for concurrent use.
type Source struct {
	fsys    fs.FS
	pattern string
	palette Palette
	width   int
	dither  bool
}

func NewSource(dir string, opts ...Option) (*Source, error) {
	s := &Source{
		fsys:    os.DirFS(dir),
		pattern: DefaultPattern,
		palette: Mono,
		width:   0,
		dither:  false,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name returns the file name of frame i.
func (s *Source) Name(i termplay.Index) string {
	return fmt.Sprintf(s.pattern, int(i))
}

func (s *Source) Frame(ctx context.Context, i termplay.Index) (termplay.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.Image(i)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = s.dither && s.palette == Color
	if err := enc.Encode(s.prepare(img)); err != nil {
		return nil, fmt.Errorf("%w: failed to encode %v: %w", termplay.ErrDecodeFailure, s.Name(i), err)
	}
	return buf.Bytes(), nil
}

// Image reads and decodes frame i without encoding it.
func (s *Source) Image(i termplay.Index) (image.Image, error) {
	name := s.Name(i)
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", termplay.ErrSourceUnavailable, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %v: %w", termplay.ErrDecodeFailure, name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %v: %w", termplay.ErrDecodeFailure, name, errEmptyImage)
	}
	return img, nil
}

var errEmptyImage = errors.New("empty image")

// prepare flattens transparency onto black, scales to the configured width
// and applies the palette.
func (s *Source) prepare(img image.Image) image.Image {
	sb := img.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if s.width > 0 && w > s.width {
		h = max(1, h*s.width/w)
		w = s.width
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, sb.Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, sb, draw.Over, nil)
	}

	if s.palette == Color {
		return rgba
	}
	p := image.NewPaletted(rgba.Bounds(), monochrome)
	if s.dither {
		draw.FloydSteinberg.Draw(p, p.Bounds(), rgba, image.Point{})
	} else {
		draw.Draw(p, p.Bounds(), rgba, image.Point{}, draw.Src)
	}
	return p
}
