package termplay

import "fmt"

// Index identifies one displayable frame of the image sequence.
type Index int

// Payload is a fully encoded terminal frame, ready to be written as is.
type Payload []byte

// Range is a closed interval of frame indices.
type Range struct {
	First Index
	Last  Index
}

func (r Range) Contains(i Index) bool {
	return i >= r.First && i <= r.Last
}

// Len returns the number of frames in r, or 0 if r is empty.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return int(r.Last-r.First) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.First, r.Last)
}
