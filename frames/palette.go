package frames

import "fmt"

type Palette int

const (
	// Mono renders every frame with a black and white palette.
	Mono Palette = iota
	// Color renders with an adaptive palette per frame.
	Color
)

func ParsePalette(s string) (Palette, error) {
	switch s {
	case "mono":
		return Mono, nil
	case "color":
		return Color, nil
	}
	return Mono, fmt.Errorf("unknown palette: %s", s)
}

func (p Palette) String() string {
	switch p {
	case Mono:
		return "mono"
	case Color:
		return "color"
	}
	return "unknown"
}
