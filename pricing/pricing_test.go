package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfest/web/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsOccupied(t *testing.T) {
	bookings := []models.Booking{
		{CheckInDate: date(2024, time.June, 10), CheckOutDate: date(2024, time.June, 13)},
	}

	assert.False(t, IsOccupied(date(2024, time.June, 9), bookings))
	assert.True(t, IsOccupied(date(2024, time.June, 10), bookings), "check-in day is occupied")
	assert.True(t, IsOccupied(date(2024, time.June, 12), bookings))
	assert.True(t, IsOccupied(date(2024, time.June, 13), bookings), "check-out day is occupied (inclusive range)")
	assert.False(t, IsOccupied(date(2024, time.June, 14), bookings))
}

func TestIsOccupiedNormalizesTimeOfDay(t *testing.T) {
	// Backend timestamps carry a time of day; comparison must truncate both
	// sides to midnight.
	bookings := []models.Booking{
		{
			CheckInDate:  time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC),
			CheckOutDate: time.Date(2024, time.June, 13, 9, 0, 0, 0, time.UTC),
		},
	}

	assert.True(t, IsOccupied(time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC), bookings))
	assert.True(t, IsOccupied(time.Date(2024, time.June, 13, 23, 0, 0, 0, time.UTC), bookings))
	assert.False(t, IsOccupied(time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC), bookings))
}

func TestIsOccupiedNoBookings(t *testing.T) {
	assert.False(t, IsOccupied(date(2024, time.June, 10), nil))
}

func TestIsMonthOccupied(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		month    time.Month
		want     bool
	}{
		{"fully inside month", date(2024, time.March, 5), date(2024, time.March, 20), time.March, true},
		{"spans whole month", date(2024, time.February, 1), date(2024, time.April, 30), time.March, true},
		{"partial overlap at start", date(2024, time.February, 20), date(2024, time.March, 2), time.March, true},
		{"partial overlap at end", date(2024, time.March, 30), date(2024, time.April, 5), time.March, true},
		{"ends on first of month", date(2024, time.February, 15), date(2024, time.March, 1), time.March, true},
		{"starts on last of month", date(2024, time.March, 31), date(2024, time.April, 10), time.March, true},
		{"entirely before", date(2024, time.January, 5), date(2024, time.February, 10), time.March, false},
		{"entirely after", date(2024, time.April, 1), date(2024, time.April, 10), time.March, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := []models.Booking{{CheckInDate: tt.checkIn, CheckOutDate: tt.checkOut}}
			assert.Equal(t, tt.want, IsMonthOccupied(tt.month, 2024, bookings))
		})
	}
}

func TestNightlyBaseRate(t *testing.T) {
	// Three nights, two adults, no children: no surcharges apply.
	total, err := Nightly(date(2024, time.June, 10), date(2024, time.June, 13), 2, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(3000), total)
}

func TestNightlySurcharges(t *testing.T) {
	// Two nights, one extra adult, one child.
	total, err := Nightly(date(2024, time.June, 10), date(2024, time.June, 12), 3, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(2000+300+150), total)
}

func TestNightlyInvalidRange(t *testing.T) {
	_, err := Nightly(date(2024, time.June, 13), date(2024, time.June, 10), 2, 0, 1000)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Nightly(date(2024, time.June, 10), date(2024, time.June, 10), 2, 0, 1000)
	assert.ErrorIs(t, err, ErrInvalidRange, "zero-night stay is invalid")
}

func TestNightlyPartialDayRoundsUp(t *testing.T) {
	checkIn := time.Date(2024, time.June, 10, 14, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

	total, err := Nightly(checkIn, checkOut, 2, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(2000), total)
}

func TestMonthly(t *testing.T) {
	assert.Equal(t, float64(5000), Monthly(time.March, 2024, 5000))
	assert.Equal(t, float64(5000), Monthly(time.February, 2024, 5000), "leap february still one month")
	assert.Equal(t, float64(5000), Monthly(time.December, 2024, 5000))
}

func TestCalendar(t *testing.T) {
	// June 2024 starts on a Saturday: six leading blanks, thirty days.
	cells := Calendar(time.June, 2024, nil)
	require.Len(t, cells, 36)

	for i := 0; i < 6; i++ {
		assert.True(t, cells[i].Blank())
	}
	assert.Equal(t, 1, cells[6].Date.Day())
	assert.Equal(t, 30, cells[35].Date.Day())
}

func TestCalendarFlagsOccupiedCells(t *testing.T) {
	bookings := []models.Booking{
		{CheckInDate: date(2024, time.June, 10), CheckOutDate: date(2024, time.June, 13)},
	}
	cells := Calendar(time.June, 2024, bookings)

	byDay := map[int]CalendarDay{}
	for _, c := range cells {
		if !c.Blank() {
			byDay[c.Date.Day()] = c
		}
	}
	assert.False(t, byDay[9].Occupied)
	assert.True(t, byDay[10].Occupied)
	assert.True(t, byDay[13].Occupied)
	assert.False(t, byDay[14].Occupied)
}

func TestMonthGrid(t *testing.T) {
	bookings := []models.Booking{
		{CheckInDate: date(2024, time.March, 30), CheckOutDate: date(2024, time.April, 5)},
	}
	grid := MonthGrid(2024, bookings)
	require.Len(t, grid, 12)

	assert.False(t, grid[time.February-1].Occupied)
	assert.True(t, grid[time.March-1].Occupied)
	assert.True(t, grid[time.April-1].Occupied)
	assert.False(t, grid[time.May-1].Occupied)
}

func TestMonthNavigation(t *testing.T) {
	m, y := PrevMonth(time.January, 2024)
	assert.Equal(t, time.December, m)
	assert.Equal(t, 2023, y)

	m, y = NextMonth(time.December, 2024)
	assert.Equal(t, time.January, m)
	assert.Equal(t, 2025, y)

	m, y = NextMonth(time.June, 2024)
	assert.Equal(t, time.July, m)
	assert.Equal(t, 2024, y)
}
