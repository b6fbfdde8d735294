package chronogrid_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/chronogrid/chronogrid"
	"github.com/chronogrid/chronogrid/kit/errors"
)

func TestDatetimeRangeInt64_Fixed(t *testing.T) {
	every := chronogrid.MakeDurationNanos(2)

	cases := []struct {
		closed chronogrid.ClosedWindow
		want   []int64
	}{
		{closed: chronogrid.ClosedBoth, want: []int64{0, 2, 4, 6, 8, 10}},
		{closed: chronogrid.ClosedLeft, want: []int64{0, 2, 4, 6, 8}},
		{closed: chronogrid.ClosedRight, want: []int64{2, 4, 6, 8, 10}},
		{closed: chronogrid.ClosedNone, want: []int64{2, 4, 6, 8}},
	}

	for _, tc := range cases {
		t.Run(tc.closed.String(), func(t *testing.T) {
			got, err := chronogrid.DatetimeRangeInt64(0, 10, every, tc.closed, chronogrid.Nanosecond, nil)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected sequence (-want/+got):\n%s", diff)
			}
		})
	}
}

func TestDatetimeRangeInt64_FixedInexactEnd(t *testing.T) {
	// end is not a multiple of the step; the progression stops at the last
	// value within the window.
	every := chronogrid.MakeDurationNanos(2)

	cases := []struct {
		closed chronogrid.ClosedWindow
		want   []int64
	}{
		{closed: chronogrid.ClosedBoth, want: []int64{0, 2, 4, 6, 8}},
		{closed: chronogrid.ClosedLeft, want: []int64{0, 2, 4, 6, 8}},
		{closed: chronogrid.ClosedRight, want: []int64{2, 4, 6, 8}},
		{closed: chronogrid.ClosedNone, want: []int64{2, 4, 6, 8}},
	}

	for _, tc := range cases {
		t.Run(tc.closed.String(), func(t *testing.T) {
			got, err := chronogrid.DatetimeRangeInt64(0, 9, every, tc.closed, chronogrid.Nanosecond, nil)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDatetimeRangeInt64_CountRelationship(t *testing.T) {
	// When (end-start) is an exact multiple of the interval:
	// |Both| = |Left|+1 = |Right|+1 = |None|+2.
	every := chronogrid.MakeDurationNanos(10)

	count := func(closed chronogrid.ClosedWindow) int {
		ts, err := chronogrid.DatetimeRangeInt64(0, 1000, every, closed, chronogrid.Nanosecond, nil)
		require.NoError(t, err)
		return len(ts)
	}

	both := count(chronogrid.ClosedBoth)
	require.Equal(t, both, count(chronogrid.ClosedLeft)+1)
	require.Equal(t, both, count(chronogrid.ClosedRight)+1)
	require.Equal(t, both, count(chronogrid.ClosedNone)+2)
}

func TestDatetimeRangeInt64_StartAfterEnd(t *testing.T) {
	for _, closed := range []chronogrid.ClosedWindow{
		chronogrid.ClosedBoth, chronogrid.ClosedLeft, chronogrid.ClosedRight, chronogrid.ClosedNone,
	} {
		ts, err := chronogrid.DatetimeRangeInt64(10, 0, chronogrid.MakeDurationNanos(1), closed, chronogrid.Nanosecond, nil)
		require.NoError(t, err)
		require.Empty(t, ts)
	}
}

func TestDatetimeRangeInt64_InvalidInterval(t *testing.T) {
	for _, closed := range []chronogrid.ClosedWindow{
		chronogrid.ClosedBoth, chronogrid.ClosedLeft, chronogrid.ClosedRight, chronogrid.ClosedNone,
	} {
		_, err := chronogrid.DatetimeRangeInt64(0, 10, chronogrid.Duration{}, closed, chronogrid.Nanosecond, nil)
		require.Error(t, err)
		require.Equal(t, errors.EInvalid, errors.ErrorCode(err))

		_, err = chronogrid.DatetimeRangeInt64(0, 10, chronogrid.MakeDurationNanos(-5), closed, chronogrid.Nanosecond, nil)
		require.Error(t, err)
		require.Equal(t, errors.EInvalid, errors.ErrorCode(err))
	}
}

func TestDatetimeRangeInt64_IntervalBelowUnitResolution(t *testing.T) {
	// 500us cannot step a millisecond-scaled range.
	every := chronogrid.MakeDurationNanos(500 * 1000)
	_, err := chronogrid.DatetimeRangeInt64(0, 10, every, chronogrid.ClosedBoth, chronogrid.Millisecond, nil)
	require.Error(t, err)
	require.Equal(t, errors.EInvalid, errors.ErrorCode(err))
}

func TestDatetimeRangeInt64_PartialTickInterval(t *testing.T) {
	// An interval that is not an exact multiple of the unit cannot step the
	// grid without silently truncating; it is rejected, not rounded.
	cases := []struct {
		every string
		unit  chronogrid.TimeUnit
	}{
		{every: "1500ns", unit: chronogrid.Microsecond},
		{every: "1ms500us", unit: chronogrid.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.every, func(t *testing.T) {
			every, err := chronogrid.ParseDuration(tc.every)
			require.NoError(t, err)

			_, err = chronogrid.DatetimeRangeInt64(0, 100, every, chronogrid.ClosedBoth, tc.unit, nil)
			require.Error(t, err)
			require.Equal(t, errors.EInvalid, errors.ErrorCode(err))
		})
	}
}

func TestDatetimeRangeInt64_FixedRespectsUnit(t *testing.T) {
	// A 1ms step over a millisecond-scaled range advances by 1, not by the
	// raw nanosecond count of the interval.
	every, err := chronogrid.ParseDuration("1ms")
	require.NoError(t, err)

	got, err := chronogrid.DatetimeRangeInt64(0, 5, every, chronogrid.ClosedBoth, chronogrid.Millisecond, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3, 4, 5}, got)
}

func TestDatetimeRangeInt64_MonthlyClampsToMonthEnd(t *testing.T) {
	every, err := chronogrid.ParseDuration("1mo")
	require.NoError(t, err)

	unit := chronogrid.Millisecond
	start := unit.Epoch(time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC))
	end := unit.Epoch(time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC))

	got, err := chronogrid.DatetimeRangeInt64(start, end, every, chronogrid.ClosedBoth, unit, nil)
	require.NoError(t, err)

	want := []int64{
		unit.Epoch(time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC)),
		unit.Epoch(time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC)),
		unit.Epoch(time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC)),
		unit.Epoch(time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC)),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected sequence (-want/+got):\n%s", diff)
	}
}

func TestDatetimeRangeInt64_Weekly(t *testing.T) {
	every, err := chronogrid.ParseDuration("1w")
	require.NoError(t, err)

	unit := chronogrid.Microsecond
	start := unit.Epoch(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	end := unit.Epoch(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC))

	got, err := chronogrid.DatetimeRangeInt64(start, end, every, chronogrid.ClosedBoth, unit, nil)
	require.NoError(t, err)

	var want []int64
	for day := 1; day <= 29; day += 7 {
		want = append(want, unit.Epoch(time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC)))
	}
	require.Equal(t, want, got)
}

func TestDatetimeRangeInt64_GeneralClosedWindows(t *testing.T) {
	every, err := chronogrid.ParseDuration("1d")
	require.NoError(t, err)

	unit := chronogrid.Millisecond
	day := func(d int) int64 {
		return unit.Epoch(time.Date(2022, 3, d, 0, 0, 0, 0, time.UTC))
	}

	cases := []struct {
		closed chronogrid.ClosedWindow
		want   []int64
	}{
		{closed: chronogrid.ClosedBoth, want: []int64{day(1), day(2), day(3), day(4)}},
		{closed: chronogrid.ClosedLeft, want: []int64{day(1), day(2), day(3)}},
		{closed: chronogrid.ClosedRight, want: []int64{day(2), day(3), day(4)}},
		{closed: chronogrid.ClosedNone, want: []int64{day(2), day(3)}},
	}

	for _, tc := range cases {
		t.Run(tc.closed.String(), func(t *testing.T) {
			got, err := chronogrid.DatetimeRangeInt64(day(1), day(4), every, tc.closed, unit, nil)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDatetimeRangeInt64_ZonedWallClock(t *testing.T) {
	// Daily steps in a zoned calendar land on local midnight.
	loc := time.FixedZone("UTC-5", -5*3600)
	every, err := chronogrid.ParseDuration("1d")
	require.NoError(t, err)

	unit := chronogrid.Microsecond
	start := unit.Epoch(time.Date(2021, 6, 1, 0, 0, 0, 0, loc))
	end := unit.Epoch(time.Date(2021, 6, 4, 0, 0, 0, 0, loc))

	got, err := chronogrid.DatetimeRangeInt64(start, end, every, chronogrid.ClosedBoth, unit, loc)
	require.NoError(t, err)

	want := []int64{
		unit.Epoch(time.Date(2021, 6, 1, 0, 0, 0, 0, loc)),
		unit.Epoch(time.Date(2021, 6, 2, 0, 0, 0, 0, loc)),
		unit.Epoch(time.Date(2021, 6, 3, 0, 0, 0, 0, loc)),
		unit.Epoch(time.Date(2021, 6, 4, 0, 0, 0, 0, loc)),
	}
	require.Equal(t, want, got)
}

func TestDatetimeRangeInt64_StrictlyAscending(t *testing.T) {
	every, err := chronogrid.ParseDuration("1mo")
	require.NoError(t, err)

	unit := chronogrid.Millisecond
	start := unit.Epoch(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC))
	end := unit.Epoch(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))

	got, err := chronogrid.DatetimeRangeInt64(start, end, every, chronogrid.ClosedBoth, unit, nil)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i], got[i-1], "index %d", i)
	}
}

func TestDatetimeRangeInt64_Idempotent(t *testing.T) {
	every, err := chronogrid.ParseDuration("1mo2d")
	require.NoError(t, err)

	unit := chronogrid.Microsecond
	start := unit.Epoch(time.Date(2021, 1, 15, 12, 0, 0, 0, time.UTC))
	end := unit.Epoch(time.Date(2021, 12, 15, 12, 0, 0, 0, time.UTC))

	first, err := chronogrid.DatetimeRangeInt64(start, end, every, chronogrid.ClosedLeft, unit, nil)
	require.NoError(t, err)
	second, err := chronogrid.DatetimeRangeInt64(start, end, every, chronogrid.ClosedLeft, unit, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("sequences differ between identical calls (-first/+second):\n%s", diff)
	}
}

func TestDatetimeRangeInt64_UnitConsistency(t *testing.T) {
	// The same logical range generated at ns, us and ms scales to identical
	// sequences after unit conversion.
	every, err := chronogrid.ParseDuration("90m")
	require.NoError(t, err)

	start := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	gen := func(unit chronogrid.TimeUnit) []int64 {
		ts, err := chronogrid.DatetimeRangeInt64(unit.Epoch(start), unit.Epoch(end), every, chronogrid.ClosedBoth, unit, nil)
		require.NoError(t, err)
		return ts
	}

	ns := gen(chronogrid.Nanosecond)
	us := gen(chronogrid.Microsecond)
	ms := gen(chronogrid.Millisecond)

	require.Len(t, ns, 5)
	require.Len(t, us, 5)
	require.Len(t, ms, 5)
	for i := range ns {
		require.Equal(t, ns[i], us[i]*1000)
		require.Equal(t, ns[i], ms[i]*1000*1000)
	}
}
