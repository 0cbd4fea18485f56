package models

// Booking status as reported by the backend. The client never transitions
// these itself, it only reflects what the API returns.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Listing request moderation status. The backend encodes these as integers.
const (
	RequestStatusPending  = 0
	RequestStatusApproved = 1
	RequestStatusRejected = 2
)

// RequestStatusLabel maps a backend status code to its display name.
func RequestStatusLabel(status int) string {
	switch status {
	case RequestStatusApproved:
		return "Approved"
	case RequestStatusRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

// Price unit codes accepted by the listing-request endpoint.
const (
	PriceUnitPerNight = 0
	PriceUnitPerMonth = 1
	PriceUnitPerWeek  = 2
)

// PriceUnitCode converts a form value like "PerNight" to the backend's
// integer encoding. Unknown values fall back to per-night.
func PriceUnitCode(unit string) int {
	switch unit {
	case "PerMonth":
		return PriceUnitPerMonth
	case "PerWeek":
		return PriceUnitPerWeek
	default:
		return PriceUnitPerNight
	}
}
