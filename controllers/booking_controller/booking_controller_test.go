package booking_controller

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
	"github.com/rentfest/web/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLoggers()
}

// fakeBackend serves the envelope responses the controller depends on and
// records what book-and-pay was called with.
type fakeBackend struct {
	listings []models.Listing
	bookings []map[string]any

	bookAndPayCalls   int
	bookAndPayPayload models.BookingPayload

	createBookingCalls   int
	createBookingPayload models.BookingPayload
}

func (fb *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		write := func(data any) {
			json.NewEncoder(w).Encode(map[string]any{
				"statusCode": "200", "message": "", "data": data,
			})
		}
		switch {
		case r.URL.Path == "/api/ListingRequest/Approved":
			write(fb.listings)
		case r.URL.Path == "/api/Booking/GetPropertyByID":
			write(fb.bookings)
		case r.URL.Path == "/api/Booking" && r.Method == http.MethodPost:
			fb.createBookingCalls++
			json.NewDecoder(r.Body).Decode(&fb.createBookingPayload)
			write(nil)
		case r.URL.Path == "/api/Booking/book-and-pay":
			fb.bookAndPayCalls++
			json.NewDecoder(r.Body).Decode(&fb.bookAndPayPayload)
			write(models.PaymentOrder{
				OrderID:  "order_123",
				Key:      "rzp_test_key",
				Amount:   int64(fb.bookAndPayPayload.Amount * 100),
				Currency: "INR",
			})
		default:
			write(nil)
		}
	}
}

func newTestRouter(t *testing.T, fb *fakeBackend, sess *models.Session) (*gin.Engine, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(fb.handler())
	client := &clients.RentfestClient{BaseURL: server.URL, HTTPClient: server.Client()}
	controller := NewBookingController(client, directory.New(client), &clients.RazorpayVerifier{})

	r := gin.New()
	r.SetFuncMap(template.FuncMap{"add": func(a, b int) int { return a + b }})
	r.LoadHTMLGlob("../../templates/*.html")
	r.Use(func(c *gin.Context) {
		c.Set(utils.SessionKey, sess)
	})
	r.GET("/bookings/:id", controller.Availability)
	r.POST("/bookings/:id", controller.Confirm)
	r.GET("/bookings/:id/form", controller.ShowBookingForm)
	r.POST("/bookings/:id/form", controller.SubmitBookingForm)
	r.POST("/payments/callback", controller.PaymentCallback)
	return r, server
}

func testSession() *models.Session {
	return &models.Session{Token: "tok", Username: "guest", Role: "user", Email: "guest@example.com", UserID: 7}
}

func resortListing() models.Listing {
	return models.Listing{ID: 1, Name: "Lakeside Resort", Category: "Resort", DailyRate: 1000, Status: models.RequestStatusApproved}
}

func monthlyListing() models.Listing {
	return models.Listing{ID: 2, Name: "City Flat", Category: "Apartment", Price: 5000, Status: models.RequestStatusApproved}
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestResortConfirmComputesNightlyAmount(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/bookings/1", url.Values{
		"checkIn":  {"2024-06-10"},
		"checkOut": {"2024-06-13"},
		"adults":   {"2"},
		"children": {"0"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, fb.bookAndPayCalls)
	assert.Equal(t, 3000.0, fb.bookAndPayPayload.Amount)
	assert.Equal(t, "2024-06-10", fb.bookAndPayPayload.CheckInDate)
	assert.Equal(t, int64(7), fb.bookAndPayPayload.UserID)

	// Checkout page carries the issued order and amount in paise.
	body := w.Body.String()
	assert.Contains(t, body, "order_123")
	assert.Contains(t, body, `"amount":300000`)
	assert.Contains(t, body, `"currency":"INR"`)
}

func TestResortConfirmAppliesGuestSurcharges(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	// 2 nights at 1000, one extra adult at 300, one child at 150.
	w := postForm(r, "/bookings/1", url.Values{
		"checkIn":  {"2024-06-10"},
		"checkOut": {"2024-06-12"},
		"adults":   {"3"},
		"children": {"1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2450.0, fb.bookAndPayPayload.Amount)
}

func TestResortConfirmRejectsOccupiedDates(t *testing.T) {
	fb := &fakeBackend{
		listings: []models.Listing{resortListing()},
		bookings: []map[string]any{
			{"id": 1, "checkInDate": "2024-06-12", "checkOutDate": "2024-06-14", "listingRequestId": 1},
		},
	}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/bookings/1", url.Values{
		"checkIn":  {"2024-06-10"},
		"checkOut": {"2024-06-13"},
		"adults":   {"2"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "err=")
	assert.Zero(t, fb.bookAndPayCalls, "occupied dates must be rejected before payment")
}

func TestResortConfirmRejectsInvertedRange(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/bookings/1", url.Values{
		"checkIn":  {"2024-06-13"},
		"checkOut": {"2024-06-10"},
		"adults":   {"2"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Zero(t, fb.bookAndPayCalls)
}

func TestResortCalendarRejectsOccupiedSelection(t *testing.T) {
	fb := &fakeBackend{
		listings: []models.Listing{resortListing()},
		bookings: []map[string]any{
			{"id": 1, "checkInDate": "2024-06-12", "checkOutDate": "2024-06-14", "listingRequestId": 1},
		},
	}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/1?month=6&year=2024&date=2024-06-12", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "month=6")
	assert.Contains(t, w.Header().Get("Location"), "already+booked")
}

func TestResortCalendarRendersConfirmPanel(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/bookings/1?month=6&year=2024&date=2024-06-10&checkout=2024-06-13&adults=2", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "2024-06-10")
	assert.Contains(t, body, "3000")
}

func TestMonthlyConfirmUsesMonthlyRate(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{monthlyListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/bookings/2", url.Values{
		"selectedMonth": {"7"},
		"year":          {"2024"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5000.0, fb.bookAndPayPayload.Amount)
	assert.Equal(t, "2024-07-01", fb.bookAndPayPayload.CheckInDate)
	assert.Equal(t, "2024-07-31", fb.bookAndPayPayload.CheckOutDate)
}

func TestMonthlyConfirmRejectsOccupiedMonth(t *testing.T) {
	fb := &fakeBackend{
		listings: []models.Listing{monthlyListing()},
		bookings: []map[string]any{
			{"id": 9, "checkInDate": "2024-07-01", "checkOutDate": "2024-07-31", "listingRequestId": 2},
		},
	}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/bookings/2", url.Values{
		"selectedMonth": {"7"},
		"year":          {"2024"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Zero(t, fb.bookAndPayCalls)

	// The rejection must land back on the grid for the year the user was
	// browsing, not the current one.
	assert.Contains(t, w.Header().Get("Location"), "/bookings/2?year=2024")
	assert.Contains(t, w.Header().Get("Location"), "already+booked")
}

func TestBookingFormRendersForListing(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/1/form", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Book Your Stay")
	assert.Contains(t, body, "Lakeside Resort")
	assert.Contains(t, body, `action="/bookings/1/form"`)
}

func TestBookingFormSubmits(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/bookings/1/form", url.Values{
		"checkInDate":  {"2024-06-10"},
		"checkOutDate": {"2024-06-13"},
		"adults":       {"2"},
		"children":     {"1"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/?msg=")

	assert.Equal(t, 1, fb.createBookingCalls)
	assert.Equal(t, int64(1), fb.createBookingPayload.ListingRequestID)
	assert.Equal(t, int64(7), fb.createBookingPayload.UserID)
	assert.Equal(t, "2024-06-10", fb.createBookingPayload.CheckInDate)
	assert.Equal(t, "2024-06-13", fb.createBookingPayload.CheckOutDate)
	assert.Equal(t, 2, fb.createBookingPayload.Adults)
	assert.Equal(t, 1, fb.createBookingPayload.Children)
	assert.Zero(t, fb.bookAndPayCalls, "the plain form never opens a payment order")
}

func TestBookingFormRejectsInvertedRange(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	// Equal dates fail the check-out-after-check-in guard too.
	for _, checkOut := range []string{"2024-06-08", "2024-06-10"} {
		w := postForm(r, "/bookings/1/form", url.Values{
			"checkInDate":  {"2024-06-10"},
			"checkOutDate": {checkOut},
			"adults":       {"2"},
		})

		require.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/bookings/1/form?err=")
		assert.Contains(t, w.Header().Get("Location"), "after+check-in")
	}
	assert.Zero(t, fb.createBookingCalls)
}

func TestPaymentCallbackRejectsUnusableListingID(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	for _, id := range []string{"", "abc", "0", "-3"} {
		w := postForm(r, "/payments/callback", url.Values{
			"listingRequestId":    {id},
			"razorpay_order_id":   {"order_123"},
			"razorpay_payment_id": {"pay_456"},
		})

		require.Equal(t, http.StatusFound, w.Code)
		location := w.Header().Get("Location")
		assert.Contains(t, location, "/bookings?err=")
		assert.Contains(t, location, "Invalid+payment+response")
		assert.NotContains(t, location, "/bookings/0")
	}
}

func TestPaymentCallbackDismissal(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/payments/callback", url.Values{
		"listingRequestId": {"1"},
		"cancelled":        {"true"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/bookings/1")
	assert.Contains(t, w.Header().Get("Location"), "popup+closed")
}

func TestPaymentCallbackMissingReferences(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/payments/callback", url.Values{
		"listingRequestId":  {"1"},
		"razorpay_order_id": {"order_123"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "Invalid+payment+response")
}

func TestPaymentCallbackSuccessRendersInvoice(t *testing.T) {
	fb := &fakeBackend{listings: []models.Listing{resortListing()}}
	r, server := newTestRouter(t, fb, testSession())
	defer server.Close()

	w := postForm(r, "/payments/callback", url.Values{
		"listingRequestId":    {"1"},
		"checkInDate":         {"2024-06-10"},
		"checkOutDate":        {"2024-06-13"},
		"adults":              {"2"},
		"children":            {"0"},
		"amount":              {"3000"},
		"razorpay_order_id":   {"order_123"},
		"razorpay_payment_id": {"pay_456"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Lakeside Resort")
	assert.Contains(t, body, "pay_456")
	assert.Contains(t, body, "order_123")
}
