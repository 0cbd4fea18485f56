package models

import "time"

// Booking is a reserved date range (or month) against a listing, as reported
// by the backend. State transitions are backend-driven.
type Booking struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"userId"`
	ListingRequestID int64     `json:"listingRequestId"`
	CheckInDate      time.Time `json:"checkInDate"`
	CheckOutDate     time.Time `json:"checkOutDate"`
	Adults           int       `json:"adults"`
	Children         int       `json:"children"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
}

// BookingPayload is the body of POST /api/Booking and
// POST /api/Booking/book-and-pay. Dates are sent as yyyy-mm-dd.
type BookingPayload struct {
	UserID           int64   `json:"userId"`
	ListingRequestID int64   `json:"listingRequestId"`
	CheckInDate      string  `json:"checkInDate"`
	CheckOutDate     string  `json:"checkOutDate"`
	Adults           int     `json:"adults"`
	Children         int     `json:"children"`
	Amount           float64 `json:"amount"`
}

// PaymentOrder is the order handed back by book-and-pay; it configures the
// hosted checkout. Amount is in minor currency units (paise).
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Key      string `json:"key"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Valid reports whether the order carries everything the checkout needs.
func (o *PaymentOrder) Valid() bool {
	return o.OrderID != "" && o.Key != "" && o.Amount > 0 && o.Currency != ""
}
