package chronogrid

import (
	"fmt"
	"time"

	"github.com/chronogrid/chronogrid/kit/errors"
)

// TimeUnit is the integer scale at which instants are represented: a count of
// nanoseconds, microseconds or milliseconds since the Unix epoch. Every
// instant consumed or produced within one call shares one unit.
type TimeUnit int

const (
	// Nanosecond epoch integers count nanoseconds since 1970-01-01T00:00:00Z.
	Nanosecond TimeUnit = iota
	// Microsecond epoch integers count microseconds since the epoch.
	Microsecond
	// Millisecond epoch integers count milliseconds since the epoch.
	Millisecond
)

// Factor returns the number of nanoseconds per tick of the unit.
func (u TimeUnit) Factor() int64 {
	switch u {
	case Nanosecond:
		return 1
	case Microsecond:
		return nsPerMicro
	case Millisecond:
		return nsPerMilli
	default:
		panic(fmt.Sprintf("unknown time unit %d", int(u)))
	}
}

// EpochChecked converts t into the unit's epoch-integer representation,
// reporting whether the instant is representable as int64 at that unit.
// Epoch (and the underlying time.Time conversions) silently wrap outside
// that range.
func (u TimeUnit) EpochChecked(t time.Time) (int64, bool) {
	ticksPerSec := nsPerSecond / u.Factor()
	v, ok := mul64(t.Unix(), ticksPerSec)
	if !ok {
		return 0, false
	}
	out := v + int64(t.Nanosecond())/u.Factor()
	if out < v {
		return 0, false
	}
	return out, true
}

// Epoch converts t into the unit's epoch-integer representation.
func (u TimeUnit) Epoch(t time.Time) int64 {
	switch u {
	case Nanosecond:
		return t.UnixNano()
	case Microsecond:
		return t.UnixMicro()
	case Millisecond:
		return t.UnixMilli()
	default:
		panic(fmt.Sprintf("unknown time unit %d", int(u)))
	}
}

// Time converts an epoch integer at the unit back into a time.Time in loc.
// A nil loc yields UTC.
func (u TimeUnit) Time(v int64, loc *time.Location) time.Time {
	var t time.Time
	switch u {
	case Nanosecond:
		t = time.Unix(v/nsPerSecond, v%nsPerSecond)
	case Microsecond:
		t = time.UnixMicro(v)
	case Millisecond:
		t = time.UnixMilli(v)
	default:
		panic(fmt.Sprintf("unknown time unit %d", int(u)))
	}
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}

// String returns the short name of the unit.
func (u TimeUnit) String() string {
	switch u {
	case Nanosecond:
		return "ns"
	case Microsecond:
		return "us"
	case Millisecond:
		return "ms"
	default:
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
}

// ParseTimeUnit parses the short unit names "ns", "us" and "ms".
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch s {
	case "ns":
		return Nanosecond, nil
	case "us":
		return Microsecond, nil
	case "ms":
		return Millisecond, nil
	default:
		return 0, &errors.Error{
			Code: errors.EInvalid,
			Msg:  fmt.Sprintf("unknown time unit %q, expected ns, us or ms", s),
			Op:   "chronogrid.ParseTimeUnit",
		}
	}
}
