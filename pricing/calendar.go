package pricing

import (
	"time"

	"github.com/rentfest/web/models"
)

// CalendarDay is one cell of the availability calendar. Blank leading cells
// (before the first weekday of the month) have a zero Date.
type CalendarDay struct {
	Date     time.Time
	Occupied bool
}

// Blank reports whether the cell is a leading placeholder.
func (d CalendarDay) Blank() bool {
	return d.Date.IsZero()
}

// Calendar builds the cell grid for a month: leading blanks so the first
// day lands on its weekday column (Sunday first), then one cell per day
// flagged against the existing bookings.
func Calendar(month time.Month, year int, bookings []models.Booking) []CalendarDay {
	first := FirstOfMonth(month, year)
	days := LastOfMonth(month, year).Day()

	cells := make([]CalendarDay, 0, int(first.Weekday())+days)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, CalendarDay{})
	}
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		cells = append(cells, CalendarDay{Date: date, Occupied: IsOccupied(date, bookings)})
	}
	return cells
}

// MonthCell is one entry of the monthly-mode selection grid.
type MonthCell struct {
	Month    time.Month
	Occupied bool
}

// MonthGrid flags each month of the year against the existing bookings.
func MonthGrid(year int, bookings []models.Booking) []MonthCell {
	cells := make([]MonthCell, 0, 12)
	for m := time.January; m <= time.December; m++ {
		cells = append(cells, MonthCell{Month: m, Occupied: IsMonthOccupied(m, year, bookings)})
	}
	return cells
}

// PrevMonth and NextMonth navigate the calendar with year rollover.
func PrevMonth(month time.Month, year int) (time.Month, int) {
	if month == time.January {
		return time.December, year - 1
	}
	return month - 1, year
}

func NextMonth(month time.Month, year int) (time.Month, int) {
	if month == time.December {
		return time.January, year + 1
	}
	return month + 1, year
}
