package chronogrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chronogrid/chronogrid/kit/errors"
)

// Nanosecond counts for the fixed sub-day units.
const (
	nsPerMicro  = int64(1000)
	nsPerMilli  = nsPerMicro * 1000
	nsPerSecond = nsPerMilli * 1000
	nsPerMinute = nsPerSecond * 60
	nsPerHour   = nsPerMinute * 60

	// Approximations used only for sizing buffers, never for stepping.
	// A calendar day is taken as 24h and a month as 30 days.
	approxNsPerDay   = 24 * nsPerHour
	approxNsPerWeek  = 7 * approxNsPerDay
	approxNsPerMonth = 30 * approxNsPerDay
)

// Duration is a calendar-aware interval.
//
// A duration of "1 month" cannot be reduced to a fixed number of nanoseconds
// because month lengths vary, and "1 day" likewise varies across DST
// transitions in a zoned calendar. Duration therefore keeps the calendar
// components (months, weeks, days) separate from the fixed sub-day component
// (nsecs), so that stepping code can resolve the calendar components against a
// real calendar at the instant they are applied from.
//
// All components share one sign carried by the negative flag; the component
// fields themselves are kept non-negative.
type Duration struct {
	months   int64
	weeks    int64
	days     int64
	nsecs    int64
	negative bool
}

// MakeDuration builds a Duration from its components. A negative value for
// any component marks the whole duration negative; components must not mix
// signs.
func MakeDuration(months, weeks, days, nsecs int64) Duration {
	d := Duration{months: months, weeks: weeks, days: days, nsecs: nsecs}
	if months < 0 || weeks < 0 || days < 0 || nsecs < 0 {
		d.negative = true
		d.months = abs64(months)
		d.weeks = abs64(weeks)
		d.days = abs64(days)
		d.nsecs = abs64(nsecs)
	}
	return d
}

// MakeDurationNanos builds a fixed (non-calendar) Duration of n nanoseconds.
func MakeDurationNanos(n int64) Duration {
	return MakeDuration(0, 0, 0, n)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Months returns the month component.
func (d Duration) Months() int64 { return d.months }

// Weeks returns the week component.
func (d Duration) Weeks() int64 { return d.weeks }

// Days returns the day component.
func (d Duration) Days() int64 { return d.days }

// Nanoseconds returns the fixed sub-day component in nanoseconds.
func (d Duration) Nanoseconds() int64 { return d.nsecs }

// IsZero reports whether every component is zero.
func (d Duration) IsZero() bool {
	return d.months == 0 && d.weeks == 0 && d.days == 0 && d.nsecs == 0
}

// IsNegative reports whether the duration points backwards in time.
func (d Duration) IsNegative() bool { return d.negative }

// IsConstant reports whether the duration has no calendar components and
// therefore represents the same absolute length of time wherever it is
// applied from.
func (d Duration) IsConstant() bool {
	return d.months == 0 && d.weeks == 0 && d.days == 0
}

// MulChecked scales every component by n. It fails with an
// EUnprocessableEntity error when any scaled component overflows int64.
func (d Duration) MulChecked(n int64) (Duration, error) {
	const op = "chronogrid.Duration.MulChecked"

	if n < 0 {
		n = -n
		d.negative = !d.negative
	}
	var ok bool
	out := d
	if out.months, ok = mul64(d.months, n); !ok {
		return Duration{}, scaleOverflowErr(op, d, n)
	}
	if out.weeks, ok = mul64(d.weeks, n); !ok {
		return Duration{}, scaleOverflowErr(op, d, n)
	}
	if out.days, ok = mul64(d.days, n); !ok {
		return Duration{}, scaleOverflowErr(op, d, n)
	}
	if out.nsecs, ok = mul64(d.nsecs, n); !ok {
		return Duration{}, scaleOverflowErr(op, d, n)
	}
	return out, nil
}

func scaleOverflowErr(op string, d Duration, n int64) error {
	return &errors.Error{
		Code: errors.EUnprocessableEntity,
		Msg:  fmt.Sprintf("scaling interval %s by %d overflows", d, n),
		Op:   op,
	}
}

// mul64 multiplies two int64s, reporting whether the product is exact.
func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// ApproxNanos returns an approximate fixed length of the duration in
// nanoseconds, treating a month as 30 days and a day as 24 hours. The result
// is a sizing hint for callers pre-allocating buffers; it must never be used
// to step instants.
func (d Duration) ApproxNanos() int64 {
	n := d.months*approxNsPerMonth + d.weeks*approxNsPerWeek + d.days*approxNsPerDay + d.nsecs
	if d.negative {
		return -n
	}
	return n
}

// ApproxMicros is ApproxNanos at microsecond scale.
func (d Duration) ApproxMicros() int64 { return d.ApproxNanos() / nsPerMicro }

// ApproxMillis is ApproxNanos at millisecond scale.
func (d Duration) ApproxMillis() int64 { return d.ApproxNanos() / nsPerMilli }

// String renders the duration in the compact interval syntax accepted by
// ParseDuration, e.g. "1mo2w" or "-3d12h30m".
func (d Duration) String() string {
	if d.IsZero() {
		return "0ns"
	}

	var b strings.Builder
	if d.negative {
		b.WriteByte('-')
	}
	writePart := func(v int64, unit string) {
		if v != 0 {
			fmt.Fprintf(&b, "%d%s", v, unit)
		}
	}
	writePart(d.months, "mo")
	writePart(d.weeks, "w")
	writePart(d.days, "d")

	ns := d.nsecs
	writePart(ns/nsPerHour, "h")
	ns %= nsPerHour
	writePart(ns/nsPerMinute, "m")
	ns %= nsPerMinute
	writePart(ns/nsPerSecond, "s")
	ns %= nsPerSecond
	writePart(ns/nsPerMilli, "ms")
	ns %= nsPerMilli
	writePart(ns/nsPerMicro, "us")
	ns %= nsPerMicro
	writePart(ns, "ns")
	return b.String()
}

// ParseDuration parses a compact interval expression such as "1mo", "2w3d" or
// "-1h30m". A leading '-' negates the whole interval. Recognized units:
//
//	y    calendar year (12mo)
//	q    calendar quarter (3mo)
//	mo   calendar month
//	w    calendar week
//	d    calendar day
//	h, m, s, ms, us, ns   fixed sub-day units
//
// Magnitude/unit pairs may repeat ("1h30m"); repeated units accumulate.
func ParseDuration(s string) (Duration, error) {
	const op = "chronogrid.ParseDuration"

	orig := s
	if s == "" {
		return Duration{}, &errors.Error{
			Code: errors.EEmptyValue,
			Msg:  "empty interval",
			Op:   op,
		}
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	var d Duration
	// All magnitudes are non-negative here, so accumulate reports overflow
	// of both the unit scaling and the repeated-token sum.
	accumulate := func(dst *int64, mag, scale int64) bool {
		v, ok := mul64(mag, scale)
		if !ok {
			return false
		}
		sum := *dst + v
		if sum < *dst {
			return false
		}
		*dst = sum
		return true
	}
	for len(s) > 0 {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Duration{}, parseErr(op, orig, fmt.Sprintf("expected a number at %q", s))
		}
		mag, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return Duration{}, parseErr(op, orig, "magnitude overflows")
		}
		s = s[i:]

		i = 0
		for i < len(s) && (s[i] < '0' || s[i] > '9') && s[i] != '-' {
			i++
		}
		if i == 0 {
			return Duration{}, parseErr(op, orig, "missing unit after number")
		}
		unit := s[:i]
		s = s[i:]

		ok := true
		switch unit {
		case "y":
			ok = accumulate(&d.months, mag, 12)
		case "q":
			ok = accumulate(&d.months, mag, 3)
		case "mo":
			ok = accumulate(&d.months, mag, 1)
		case "w":
			ok = accumulate(&d.weeks, mag, 1)
		case "d":
			ok = accumulate(&d.days, mag, 1)
		case "h":
			ok = accumulate(&d.nsecs, mag, nsPerHour)
		case "m":
			ok = accumulate(&d.nsecs, mag, nsPerMinute)
		case "s":
			ok = accumulate(&d.nsecs, mag, nsPerSecond)
		case "ms":
			ok = accumulate(&d.nsecs, mag, nsPerMilli)
		case "us":
			ok = accumulate(&d.nsecs, mag, nsPerMicro)
		case "ns":
			ok = accumulate(&d.nsecs, mag, 1)
		default:
			return Duration{}, parseErr(op, orig, fmt.Sprintf("unknown unit %q", unit))
		}
		if !ok {
			return Duration{}, parseErr(op, orig, "magnitude overflows")
		}
	}

	d.negative = negative && !d.IsZero()
	return d, nil
}

func parseErr(op, input, reason string) error {
	return &errors.Error{
		Code: errors.EInvalid,
		Msg:  fmt.Sprintf("invalid interval %q: %s", input, reason),
		Op:   op,
	}
}
