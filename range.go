package chronogrid

import (
	"fmt"
	"math"
	"time"

	"github.com/chronogrid/chronogrid/kit/errors"
)

// DatetimeRangeInt64 generates the ordered sequence of epoch integers from
// start to end spaced by every, with boundary inclusion per closed. start and
// end are epoch integers at unit. Calendar components of every are resolved
// against loc (nil means timezone-naive UTC calendar).
//
// A start after end yields an empty sequence. The interval must be positive;
// a zero or negative interval fails with an EInvalid error. The result is
// strictly ascending, and on error no partial sequence is returned.
func DatetimeRangeInt64(start, end int64, every Duration, closed ClosedWindow, unit TimeUnit, loc *time.Location) ([]int64, error) {
	const op = "chronogrid.DatetimeRangeInt64"

	if start > end {
		return nil, nil
	}
	if every.IsNegative() || every.IsZero() {
		return nil, &errors.Error{
			Code: errors.EInvalid,
			Msg:  "`every` must be positive",
			Op:   op,
		}
	}

	// Fast path: no calendar components, so the step is one fixed length
	// everywhere and the sequence is a plain arithmetic progression.
	if every.IsConstant() {
		// A step that does not divide evenly into unit ticks would quietly
		// shift the grid, so partial ticks are rejected rather than
		// truncated.
		step := every.Nanoseconds() / unit.Factor()
		if step <= 0 || every.Nanoseconds()%unit.Factor() != 0 {
			return nil, &errors.Error{
				Code: errors.EInvalid,
				Msg:  fmt.Sprintf("`every` (%s) is not a positive multiple of the %s resolution", every, unit),
				Op:   op,
			}
		}
		return fixedRange(start, end, step, closed), nil
	}

	// The calendar path sizes its buffer from the interval's approximate
	// fixed length. The estimate only tunes allocation; appends are what
	// bound the result.
	var approx int64
	switch unit {
	case Microsecond:
		approx = every.ApproxMicros()
	case Millisecond:
		approx = every.ApproxMillis()
	default:
		approx = every.ApproxNanos()
	}
	var size uint64
	if approx > 0 {
		size = uint64(end-start)/uint64(approx) + 1
	}
	ts := make([]int64, 0, size)

	i := int64(0)
	if !closed.includesStart() {
		i = 1
	}
	t, err := AddOffset(start, every, i, unit, loc)
	if err != nil {
		return nil, err
	}
	i++

	if closed.includesEnd() {
		for t <= end {
			ts = append(ts, t)
			if t, err = AddOffset(start, every, i, unit, loc); err != nil {
				return nil, err
			}
			i++
		}
	} else {
		for t < end {
			ts = append(ts, t)
			if t, err = AddOffset(start, every, i, unit, loc); err != nil {
				return nil, err
			}
			i++
		}
	}
	return ts, nil
}

// fixedRange emits the arithmetic progression start, start+step, … trimmed to
// the closed window. step must be positive and start <= end.
func fixedRange(start, end, step int64, closed ClosedWindow) []int64 {
	first := start
	if !closed.includesStart() {
		if start > math.MaxInt64-step {
			return nil
		}
		first = start + step
	}
	bound := end
	if !closed.includesEnd() {
		if end == math.MinInt64 {
			return nil
		}
		bound = end - 1
	}
	if first > bound {
		return nil
	}

	// The span is computed unsigned so that ranges wider than int64 still
	// count correctly.
	n := uint64(bound-first)/uint64(step) + 1
	ts := make([]int64, 0, n)
	t := first
	for k := uint64(0); k < n; k++ {
		ts = append(ts, t)
		t += step
	}
	return ts
}
