// Package pricing computes availability and prices for proposed bookings
// against a listing's existing bookings, so the views can give immediate
// feedback before anything is submitted. The backend remains the authority
// of record; everything here is client-side gating.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/rentfest/web/models"
)

// Fixed business constants for nightly pricing. The first two adults are
// included in the base rate.
const (
	IncludedAdults = 2
	ExtraAdultFee  = 300
	ChildFee       = 150
)

var ErrInvalidRange = errors.New("check-out date must be after check-in date")

// Midnight truncates t to 00:00 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsOccupied reports whether date falls within the inclusive
// [checkIn, checkOut] range of any existing booking. All sides are
// truncated to midnight before comparison.
func IsOccupied(date time.Time, bookings []models.Booking) bool {
	d := Midnight(date)
	for _, b := range bookings {
		in := Midnight(b.CheckInDate)
		out := Midnight(b.CheckOutDate)
		if !d.Before(in) && !d.After(out) {
			return true
		}
	}
	return false
}

// IsMonthOccupied reports whether any existing booking's interval overlaps
// the given calendar month. Overlap, not containment: a booking touching
// either boundary marks the month occupied.
func IsMonthOccupied(month time.Month, year int, bookings []models.Booking) bool {
	start := FirstOfMonth(month, year)
	end := LastOfMonth(month, year)
	for _, b := range bookings {
		in := Midnight(b.CheckInDate)
		out := Midnight(b.CheckOutDate)
		if !out.Before(start) && !in.After(end) {
			return true
		}
	}
	return false
}

// Nights returns the number of nights between check-in and check-out,
// rounding partial days up. Zero or negative means an invalid range.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// Nightly prices a resort stay: nights times the daily rate, plus flat
// surcharges for extra adults and children.
func Nightly(checkIn, checkOut time.Time, adults, children int, dailyRate float64) (float64, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, ErrInvalidRange
	}
	total := float64(nights) * dailyRate
	if adults > IncludedAdults {
		total += float64(adults-IncludedAdults) * ExtraAdultFee
	}
	total += float64(children) * ChildFee
	return total, nil
}

// Monthly prices a monthly-mode booking for one selected calendar month.
// The interval always sits inside a single month today, so the multiplier
// resolves to 1; the max(1, months) guard stays so a future multi-month
// range can never produce a non-positive price.
func Monthly(month time.Month, year int, monthlyRate float64) float64 {
	checkIn := FirstOfMonth(month, year)
	checkOut := LastOfMonth(month, year)
	months := (checkOut.Year()-checkIn.Year())*12 + int(checkOut.Month()) - int(checkIn.Month())
	if months <= 0 {
		months = 1
	}
	return monthlyRate * float64(months)
}

// FirstOfMonth returns midnight on the first day of the month.
func FirstOfMonth(month time.Month, year int) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// LastOfMonth returns midnight on the last day of the month.
func LastOfMonth(month time.Month, year int) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}
