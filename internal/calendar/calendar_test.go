package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestNextPeriodStart(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{name: "first_half_to_month_end", last: "2024-01-10", want: "2024-01-31"},
		{name: "second_half_to_fifteenth", last: "2024-01-20", want: "2024-02-15"},
		{name: "month_end_sunday_to_friday", last: "2024-03-01", want: "2024-03-29"},
		{name: "fifteenth_is_first_half", last: "2024-05-15", want: "2024-05-31"},
		{name: "sixteenth_is_second_half", last: "2024-05-16", want: "2024-06-14"},
		{name: "fifteenth_monday_to_saturday", last: "2024-06-20", want: "2024-07-13"},
		{name: "month_end_monday_to_saturday", last: "2024-09-05", want: "2024-09-28"},
		{name: "month_end_saturday_to_friday", last: "2024-08-01", want: "2024-08-30"},
		{name: "leap_february", last: "2024-02-02", want: "2024-02-29"},
		{name: "year_rollover", last: "2024-12-20", want: "2025-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPeriodStart(day(t, tt.last))
			assert.Equal(t, tt.want, Format(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNextPeriodStart_Deterministic(t *testing.T) {
	start := day(t, "2024-01-01")
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		first := NextPeriodStart(d)
		second := NextPeriodStart(d)
		require.True(t, first.Equal(second), "input %s", Format(d))
		require.True(t, first.After(d.AddDate(0, 0, -1)), "input %s gave %s", Format(d), Format(first))
	}
}

func TestNextPeriodStart_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2024-01-31", Format(NextPeriodStart(late)))
}

func TestAdjustPayday_EveryWeekday(t *testing.T) {
	// 2024-01-01 is a Monday.
	tests := []struct {
		in      string
		weekday time.Weekday
		want    string
	}{
		{in: "2024-01-01", weekday: time.Monday, want: "2023-12-30"},
		{in: "2024-01-02", weekday: time.Tuesday, want: "2024-01-02"},
		{in: "2024-01-03", weekday: time.Wednesday, want: "2024-01-03"},
		{in: "2024-01-04", weekday: time.Thursday, want: "2024-01-04"},
		{in: "2024-01-05", weekday: time.Friday, want: "2024-01-05"},
		{in: "2024-01-06", weekday: time.Saturday, want: "2024-01-05"},
		{in: "2024-01-07", weekday: time.Sunday, want: "2024-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.weekday.String(), func(t *testing.T) {
			in := day(t, tt.in)
			require.Equal(t, tt.weekday, in.Weekday())
			assert.Equal(t, tt.want, Format(AdjustPayday(in)))
		})
	}
}

func TestParseDay(t *testing.T) {
	t.Run("date_only", func(t *testing.T) {
		got, err := ParseDay("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rfc3339_normalized_to_utc_day", func(t *testing.T) {
		got, err := ParseDay("2024-01-15T23:30:00-02:00")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-16", Format(got))
		assert.Zero(t, got.Hour())
	})

	for _, bad := range []string{"", "2023-02-29", "2024-13-01", "15/01/2024", "tomorrow"} {
		t.Run("rejects_"+bad, func(t *testing.T) {
			_, err := ParseDay(bad)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestAddMonthClamped(t *testing.T) {
	tests := map[string]string{
		"2024-01-15": "2024-02-15",
		"2024-01-31": "2024-02-29",
		"2023-01-31": "2023-02-28",
		"2024-03-31": "2024-04-30",
		"2024-12-31": "2025-01-31",
		"2024-02-29": "2024-03-29",
	}
	for in, want := range tests {
		assert.Equal(t, want, Format(AddMonthClamped(day(t, in))), "input %s", in)
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 10, DaysBetween(day(t, "2024-01-10"), day(t, "2024-01-20")))
	assert.Equal(t, 0, DaysBetween(day(t, "2024-01-20"), day(t, "2024-01-20")))
	assert.Equal(t, -3, DaysBetween(day(t, "2024-01-20"), day(t, "2024-01-17")))
	assert.Equal(t, 29, DaysBetween(day(t, "2024-02-01"), day(t, "2024-03-01")))
}
