// Package clients wraps the external services this application talks to:
// the Rentfest REST API and the Razorpay checkout gateway.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
)

// APIError carries a backend-reported failure. Message holds the backend's
// own wording when the envelope had one, so views can surface it verbatim.
type APIError struct {
	StatusCode string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %s", e.StatusCode)
}

// envelope is the backend's uniform response wrapper. statusCode is a string
// by the backend's convention; "200" means success regardless of the HTTP
// status line.
type envelope struct {
	StatusCode string          `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// RentfestClient is the single configured request pipeline to the backend.
// Every method attaches the caller's bearer token when one is supplied.
type RentfestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewRentfestClient builds a client against RENTFEST_API_URL.
func NewRentfestClient() *RentfestClient {
	baseURL := os.Getenv("RENTFEST_API_URL")
	if baseURL == "" {
		baseURL = "https://localhost:7044"
	}
	return &RentfestClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (rc *RentfestClient) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	endpoint := rc.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := rc.HTTPClient.Do(req)
	if err != nil {
		logger.ErrorLogger.Errorf("Request %s %s failed: %v", method, path, err)
		return fmt.Errorf("request to backend failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read backend response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.ErrorLogger.Errorf("Unparseable response from %s %s (HTTP %d): %s", method, path, resp.StatusCode, string(raw))
		return fmt.Errorf("unexpected response from backend (HTTP %d)", resp.StatusCode)
	}

	if env.StatusCode != "200" {
		logger.WarnLogger.Warnf("Backend reported failure on %s %s: statusCode=%s message=%q", method, path, env.StatusCode, env.Message)
		return &APIError{StatusCode: env.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode backend payload: %w", err)
		}
	}
	return nil
}

// Login authenticates against the backend and returns the issued token plus
// profile fields.
func (rc *RentfestClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	payload := models.LoginPayload{Email: email, Password: password}
	if err := rc.do(ctx, http.MethodPost, "/api/Auth/login", "", nil, payload, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login response did not include a token")
	}
	return &result, nil
}

// Register creates a new account.
func (rc *RentfestClient) Register(ctx context.Context, payload models.RegisterPayload) error {
	return rc.do(ctx, http.MethodPost, "/api/Auth/register", "", nil, payload, nil)
}

// ApprovedListings fetches the approved-listing set.
func (rc *RentfestClient) ApprovedListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := rc.do(ctx, http.MethodGet, "/api/ListingRequest/Approved", "", nil, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// ListingByID fetches one listing. The backend wraps the record in an array;
// an empty array means the listing does not exist.
func (rc *RentfestClient) ListingByID(ctx context.Context, token string, id int64) (*models.Listing, error) {
	var listings []models.Listing
	path := "/api/ListingRequest/" + strconv.FormatInt(id, 10)
	if err := rc.do(ctx, http.MethodGet, path, token, nil, nil, &listings); err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, &APIError{StatusCode: "404", Message: "Property not found"}
	}
	return &listings[0], nil
}

// ListingRequestByUser fetches a user's listing request for moderation.
func (rc *RentfestClient) ListingRequestByUser(ctx context.Context, token string, userID int64) (*models.Listing, error) {
	var listing models.Listing
	query := url.Values{"UserId": {strconv.FormatInt(userID, 10)}}
	if err := rc.do(ctx, http.MethodGet, "/api/ListingRequest/UserById", token, query, nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateRequestStatus sets a listing request's moderation status. The backend
// takes status and adminResponse as query parameters with an empty body.
func (rc *RentfestClient) UpdateRequestStatus(ctx context.Context, token string, id int64, status int, adminResponse string) error {
	path := "/api/ListingRequest/status/" + strconv.FormatInt(id, 10)
	query := url.Values{
		"status":        {strconv.Itoa(status)},
		"adminResponse": {adminResponse},
	}
	return rc.do(ctx, http.MethodPut, path, token, query, nil, nil)
}

// CreateListingRequest submits a new property listing request.
func (rc *RentfestClient) CreateListingRequest(ctx context.Context, token string, payload models.ListingRequestPayload) error {
	return rc.do(ctx, http.MethodPost, "/api/ListingRequest", token, nil, payload, nil)
}

// CreateBooking submits a booking without payment (simple form flow).
func (rc *RentfestClient) CreateBooking(ctx context.Context, token string, payload models.BookingPayload) error {
	return rc.do(ctx, http.MethodPost, "/api/Booking", token, nil, payload, nil)
}

// BookingsForListing fetches the existing bookings of one listing, for
// availability rendering. A failure is reported; the caller decides whether
// to degrade to an empty calendar.
func (rc *RentfestClient) BookingsForListing(ctx context.Context, token string, listingID int64) ([]models.Booking, error) {
	var wire []bookingWire
	query := url.Values{"listingRequestId": {strconv.FormatInt(listingID, 10)}}
	if err := rc.do(ctx, http.MethodGet, "/api/Booking/GetPropertyByID", token, query, nil, &wire); err != nil {
		return nil, err
	}
	return decodeBookings(wire)
}

// BookAndPay creates a pending booking and a payment order in one call. The
// returned order configures the hosted checkout; an order missing any field
// is rejected here, before the checkout ever opens.
func (rc *RentfestClient) BookAndPay(ctx context.Context, token string, payload models.BookingPayload) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := rc.do(ctx, http.MethodPost, "/api/Booking/book-and-pay", token, nil, payload, &order); err != nil {
		return nil, err
	}
	if !order.Valid() {
		logger.ErrorLogger.Errorf("Invalid payment order from backend: %+v", order)
		return nil, fmt.Errorf("invalid payment order data received")
	}
	return &order, nil
}

// UserBookings fetches the caller's own bookings. The endpoint is
// token-scoped; no user id travels in the request.
func (rc *RentfestClient) UserBookings(ctx context.Context, token string) ([]models.Booking, error) {
	var wire []bookingWire
	if err := rc.do(ctx, http.MethodGet, "/api/Booking/user", token, nil, nil, &wire); err != nil {
		return nil, err
	}
	return decodeBookings(wire)
}

// bookingWire mirrors the backend's booking record. Dates arrive as strings
// in a handful of formats, so parsing stays here instead of leaking wire
// concerns into models.
type bookingWire struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"userId"`
	ListingRequestID int64   `json:"listingRequestId"`
	CheckInDate      string  `json:"checkInDate"`
	CheckOutDate     string  `json:"checkOutDate"`
	Adults           int     `json:"adults"`
	Children         int     `json:"children"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"paymentStatus"`
}

var apiDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseAPIDate(s string) (time.Time, error) {
	for _, layout := range apiDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q from backend", s)
}

func decodeBookings(wire []bookingWire) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0, len(wire))
	for _, w := range wire {
		checkIn, err := parseAPIDate(w.CheckInDate)
		if err != nil {
			return nil, err
		}
		checkOut, err := parseAPIDate(w.CheckOutDate)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, models.Booking{
			ID:               w.ID,
			UserID:           w.UserID,
			ListingRequestID: w.ListingRequestID,
			CheckInDate:      checkIn,
			CheckOutDate:     checkOut,
			Adults:           w.Adults,
			Children:         w.Children,
			Amount:           w.Amount,
			Status:           w.Status,
			PaymentStatus:    w.PaymentStatus,
		})
	}
	return bookings, nil
}
