package chronogrid

import (
	"fmt"

	"github.com/chronogrid/chronogrid/kit/errors"
)

// ClosedWindow selects which of the two boundary instants of a bounded range
// are included in the generated sequence.
type ClosedWindow int

const (
	// ClosedBoth includes the start and the end instant.
	ClosedBoth ClosedWindow = iota
	// ClosedLeft includes the start instant only.
	ClosedLeft
	// ClosedRight includes the end instant only.
	ClosedRight
	// ClosedNone includes neither boundary instant.
	ClosedNone
)

// includesStart reports whether the start instant itself is a candidate.
func (w ClosedWindow) includesStart() bool {
	return w == ClosedBoth || w == ClosedLeft
}

// includesEnd reports whether an instant equal to end may be emitted.
func (w ClosedWindow) includesEnd() bool {
	return w == ClosedBoth || w == ClosedRight
}

// String returns the lowercase name of the window.
func (w ClosedWindow) String() string {
	switch w {
	case ClosedBoth:
		return "both"
	case ClosedLeft:
		return "left"
	case ClosedRight:
		return "right"
	case ClosedNone:
		return "none"
	default:
		return fmt.Sprintf("ClosedWindow(%d)", int(w))
	}
}

// ParseClosedWindow parses the names "both", "left", "right" and "none".
func ParseClosedWindow(s string) (ClosedWindow, error) {
	switch s {
	case "both":
		return ClosedBoth, nil
	case "left":
		return ClosedLeft, nil
	case "right":
		return ClosedRight, nil
	case "none":
		return ClosedNone, nil
	default:
		return 0, &errors.Error{
			Code: errors.EInvalid,
			Msg:  fmt.Sprintf("unknown closed window %q, expected both, left, right or none", s),
			Op:   "chronogrid.ParseClosedWindow",
		}
	}
}
