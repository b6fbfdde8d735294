package chronogrid

import (
	"fmt"
	"time"

	"github.com/chronogrid/chronogrid/kit/errors"
)

// TimeZoneResolver looks up a timezone by IANA identifier. The production
// resolver is backed by the platform timezone database; tests inject
// deterministic implementations.
type TimeZoneResolver interface {
	Resolve(name string) (*time.Location, error)
}

type systemTimeZones struct{}

// SystemTimeZones returns a TimeZoneResolver backed by the timezone database
// available to the process (see time.LoadLocation).
func SystemTimeZones() TimeZoneResolver {
	return systemTimeZones{}
}

func (systemTimeZones) Resolve(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &errors.Error{
			Code: errors.ENotFound,
			Msg:  fmt.Sprintf("unknown time zone %q", name),
			Op:   "chronogrid.SystemTimeZones.Resolve",
			Err:  err,
		}
	}
	return loc, nil
}

// AddOffset computes start advanced by every scaled step times, where start is
// an epoch integer at unit. Calendar components (months, weeks, days) are
// resolved against the calendar of loc; a nil loc means a timezone-naive (UTC
// civil) calendar. The fixed nanosecond component is applied last as an
// absolute shift.
//
// Month addition clamps the day-of-month to the last valid day of the target
// month: Jan 31 plus one month is Feb 28 (or Feb 29 in a leap year). Day and
// week addition preserves the local wall clock, so stepping across a DST
// transition keeps the local time of day while the absolute spacing absorbs
// the offset change.
func AddOffset(start int64, every Duration, step int64, unit TimeUnit, loc *time.Location) (int64, error) {
	const op = "chronogrid.AddOffset"

	scaled, err := every.MulChecked(step)
	if err != nil {
		return 0, err
	}

	if scaled.IsConstant() {
		ticks := scaled.Nanoseconds() / unit.Factor()
		if scaled.IsNegative() {
			ticks = -ticks
		}
		out := start + ticks
		if (ticks > 0 && out < start) || (ticks < 0 && out > start) {
			return 0, &errors.Error{
				Code: errors.EUnprocessableEntity,
				Msg:  fmt.Sprintf("adding %s to %d overflows the %s epoch range", scaled, start, unit),
				Op:   op,
			}
		}
		return out, nil
	}

	t := unit.Time(start, loc)

	months, days := scaled.Months(), scaled.Days()+7*scaled.Weeks()
	if scaled.IsNegative() {
		months, days = -months, -days
	}
	if months != 0 {
		t = addMonthsClamped(t, months)
	}
	if days != 0 {
		y, m, d := t.Date()
		hh, mm, ss := t.Clock()
		t = time.Date(y, m, d+int(days), hh, mm, ss, t.Nanosecond(), t.Location())
	}
	if ns := scaled.Nanoseconds(); ns != 0 {
		if scaled.IsNegative() {
			ns = -ns
		}
		t = t.Add(time.Duration(ns))
	}

	out, ok := unit.EpochChecked(t)
	if !ok {
		return 0, &errors.Error{
			Code: errors.EUnprocessableEntity,
			Msg:  fmt.Sprintf("%s is outside the representable %s epoch range", t.Format(time.RFC3339), unit),
			Op:   op,
		}
	}
	return out, nil
}

// addMonthsClamped adds m calendar months to t, clamping the day-of-month to
// the last valid day of the target month instead of normalizing overflow the
// way time.Time.AddDate does.
func addMonthsClamped(t time.Time, m int64) time.Time {
	y, mon, d := t.Date()
	hh, mm, ss := t.Clock()

	total := int64(y)*12 + int64(mon) - 1 + m
	ty := int(total / 12)
	tm := time.Month(total%12 + 1)
	if total%12 < 0 {
		ty--
		tm += 12
	}
	if last := daysInMonth(ty, tm, t.Location()); d > last {
		d = last
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month. Day zero of the
// following month normalizes to the last day of this one.
func daysInMonth(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

// InNanosecondsWindow reports whether t fits the ~±292 year range around 1970
// representable as a signed 64-bit nanosecond count.
func InNanosecondsWindow(t time.Time) bool {
	y := t.Year()
	return y >= 1386 && y <= 2554
}
