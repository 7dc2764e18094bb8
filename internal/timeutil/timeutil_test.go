package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

func TestIsSameCalendarDay(t *testing.T) {
	a := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)
	b := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameCalendarDay(a, b))
	assert.False(t, IsSameCalendarDay(b, c))
}

func TestIsPast(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.False(t, IsPast(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), now), "today is not past")
	assert.True(t, IsPast(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), now))
	assert.False(t, IsPast(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), now))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(from, time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, DaysBetween(from, time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(from, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestWeekdayName(t *testing.T) {
	// 2025-03-10 is a Monday
	assert.Equal(t, domain.Monday, WeekdayName(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.Sunday, WeekdayName(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestIsOperatingDay(t *testing.T) {
	days := []domain.Weekday{domain.Monday, domain.Friday}
	assert.True(t, IsOperatingDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), days))
	assert.False(t, IsOperatingDay(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), days))
	assert.False(t, IsOperatingDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil))
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name     string
		start    types.TimeString
		end      types.TimeString
		interval int
		want     []types.TimeString
	}{
		{
			name: "hourly", start: "09:00", end: "12:00", interval: 60,
			want: []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name: "end not on grid", start: "09:00", end: "10:10", interval: 30,
			want: []types.TimeString{"09:00", "09:30", "10:00"},
		},
		{
			name: "unpadded input", start: "9:00", end: "9:45", interval: 15,
			want: []types.TimeString{"09:00", "09:15", "09:30"},
		},
		{name: "empty range", start: "10:00", end: "10:00", interval: 30, want: []types.TimeString{}},
		{name: "inverted range", start: "12:00", end: "10:00", interval: 30, want: []types.TimeString{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSlots(tt.start, tt.end, tt.interval)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSlots_InvalidInterval(t *testing.T) {
	for _, interval := range []int{0, -15} {
		_, err := GenerateSlots("09:00", "10:00", interval)
		assert.ErrorIs(t, err, ErrInvalidInterval)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestGenerateSlots_StrictlyIncreasingOnGrid(t *testing.T) {
	slots, err := GenerateSlots("08:00", "18:00", 45)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i := range slots {
		assert.Equal(t, 0, (slots[i].Minutes()-480)%45)
		assert.True(t, slots[i].IsBefore("18:00"))
		if i > 0 {
			assert.True(t, slots[i-1].IsBefore(slots[i]))
		}
	}
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation(domain.DefaultTimezone)
	require.NoError(t, err)

	d, err := ParseDate("2025-03-10", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, 10, d.Day())

	_, err = ParseDate("10/03/2025", loc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCombineDateTime(t *testing.T) {
	got := CombineDateTime(time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), "09:30", time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), got)
}
