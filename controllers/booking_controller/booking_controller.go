package booking_controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
	"github.com/rentfest/web/pricing"
	"github.com/rentfest/web/utils"
)

const dateLayout = "2006-01-02"

// BookingController renders availability calendars, prices proposed
// bookings, and drives the checkout round trip.
type BookingController struct {
	Client    *clients.RentfestClient
	Directory *directory.Directory
	Verifier  *clients.RazorpayVerifier
}

func NewBookingController(client *clients.RentfestClient, dir *directory.Directory, verifier *clients.RazorpayVerifier) *BookingController {
	return &BookingController{Client: client, Directory: dir, Verifier: verifier}
}

// listingAndBookings resolves the listing and its existing bookings. A
// failed booking fetch degrades to an empty calendar rather than blocking
// the page; the backend re-checks on submission anyway.
func (bc *BookingController) listingAndBookings(ctx context.Context, token string, id int64) (*models.Listing, []models.Booking, error) {
	listing, err := bc.Directory.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	bookings, err := bc.Client.BookingsForListing(ctx, token, id)
	if err != nil {
		logger.WarnLogger.Warnf("Failed to fetch bookings for listing %d: %v", id, err)
		bookings = nil
	}
	return listing, bookings, nil
}

// Availability renders the per-listing availability page: a day calendar for
// resort listings, a month grid for everything else. Selecting an occupied
// cell is rejected here, before any amount is computed.
func (bc *BookingController) Availability(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid listing id", "Session": sess})
		return
	}

	listing, bookings, err := bc.listingAndBookings(c.Request.Context(), sess.Token, id)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Property not found. Please check the property ID.", "Session": sess})
		return
	}

	if listing.IsResort() {
		bc.resortCalendar(c, sess, listing, bookings)
		return
	}
	bc.monthGrid(c, sess, listing, bookings)
}

func (bc *BookingController) resortCalendar(c *gin.Context, sess *models.Session, listing *models.Listing, bookings []models.Booking) {
	now := time.Now()
	year := queryInt(c, "year", now.Year())
	month := time.Month(queryInt(c, "month", int(now.Month())))
	if month < time.January || month > time.December {
		month = now.Month()
	}

	data := gin.H{
		"Session":   sess,
		"Listing":   listing,
		"Calendar":  pricing.Calendar(month, year, bookings),
		"Month":     month,
		"MonthNum":  int(month),
		"Year":      year,
		"DailyRate": listing.NightlyRate(),
		"Error":     c.Query("err"),
		"Msg":       c.Query("msg"),
	}

	prevMonth, prevYear := pricing.PrevMonth(month, year)
	nextMonth, nextYear := pricing.NextMonth(month, year)
	data["PrevMonth"], data["PrevYear"] = int(prevMonth), prevYear
	data["NextMonth"], data["NextYear"] = int(nextMonth), nextYear

	// A selected check-in date renders the confirm panel, unless occupied.
	if raw := c.Query("date"); raw != "" {
		selected, err := time.Parse(dateLayout, raw)
		if err == nil {
			if pricing.IsOccupied(selected, bookings) {
				bc.redirectCalendar(c, listing.ID, month, year, "That date is already booked.")
				return
			}
			data["Selected"] = selected.Format(dateLayout)
			data["SelectedDisplay"] = selected.Format("Mon, 02 Jan 2006")

			adults := queryInt(c, "adults", 1)
			children := queryInt(c, "children", 0)
			data["Adults"], data["Children"] = adults, children

			// Price preview once a check-out is chosen.
			if rawOut := c.Query("checkout"); rawOut != "" {
				if checkOut, err := time.Parse(dateLayout, rawOut); err == nil {
					if amount, err := pricing.Nightly(selected, checkOut, adults, children, listing.NightlyRate()); err == nil {
						data["Checkout"] = checkOut.Format(dateLayout)
						data["Amount"] = amount
					}
				}
			}
		}
	}

	c.HTML(http.StatusOK, "booking_resort.html", data)
}

func (bc *BookingController) monthGrid(c *gin.Context, sess *models.Session, listing *models.Listing, bookings []models.Booking) {
	year := queryInt(c, "year", time.Now().Year())

	data := gin.H{
		"Session":     sess,
		"Listing":     listing,
		"Months":      pricing.MonthGrid(year, bookings),
		"Year":        year,
		"Selected":    0,
		"MonthlyRate": listing.Price,
		"Error":       c.Query("err"),
		"Msg":         c.Query("msg"),
	}

	if raw := c.Query("selectedMonth"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
			month := time.Month(m)
			if pricing.IsMonthOccupied(month, year, bookings) {
				c.Redirect(http.StatusFound, fmt.Sprintf("/bookings/%d?year=%d&err=%s",
					listing.ID, year, url.QueryEscape("That month is already booked.")))
				return
			}
			data["Selected"] = m
			data["SelectedName"] = month.String()
			data["Amount"] = pricing.Monthly(month, year, listing.Price)
		}
	}

	c.HTML(http.StatusOK, "booking_monthly.html", data)
}

// ShowBookingForm renders the plain booking form: dates and guest counts,
// no payment step. The backend prices and confirms the booking itself.
func (bc *BookingController) ShowBookingForm(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid listing id", "Session": sess})
		return
	}

	listing, err := bc.Directory.Find(c.Request.Context(), id)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Property not found. Please check the property ID.", "Session": sess})
		return
	}

	c.HTML(http.StatusOK, "booking_form.html", gin.H{
		"Session": sess,
		"Listing": listing,
		"Error":   c.Query("err"),
		"Msg":     c.Query("msg"),
	})
}

type bookingForm struct {
	CheckIn  string `form:"checkInDate"`
	CheckOut string `form:"checkOutDate"`
	Adults   int    `form:"adults"`
	Children int    `form:"children"`
}

// SubmitBookingForm validates the plain booking form and submits it without
// a payment order. The check-out date must fall after the check-in date; the
// backend owns pricing and availability for this flow.
func (bc *BookingController) SubmitBookingForm(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid listing id", "Session": sess})
		return
	}

	var form bookingForm
	if err := c.ShouldBind(&form); err != nil {
		bc.redirectBookingForm(c, id, "Invalid form data")
		return
	}

	checkIn, errIn := time.Parse(dateLayout, form.CheckIn)
	checkOut, errOut := time.Parse(dateLayout, form.CheckOut)
	if errIn != nil || errOut != nil {
		bc.redirectBookingForm(c, id, "Select valid check-in and check-out dates")
		return
	}
	if !checkOut.After(checkIn) {
		bc.redirectBookingForm(c, id, "Check-out date must be after check-in date")
		return
	}

	payload := models.BookingPayload{
		UserID:           sess.UserID,
		ListingRequestID: id,
		CheckInDate:      checkIn.Format(dateLayout),
		CheckOutDate:     checkOut.Format(dateLayout),
		Adults:           form.Adults,
		Children:         form.Children,
	}

	if err := bc.Client.CreateBooking(c.Request.Context(), sess.Token, payload); err != nil {
		logger.WarnLogger.Warnf("Booking submission for listing %d failed: %v", id, err)
		bc.redirectBookingForm(c, id, backendMessage(err))
		return
	}

	if err := bc.Directory.Refresh(c.Request.Context()); err != nil {
		logger.WarnLogger.Warnf("Directory refresh after booking failed: %v", err)
	}

	logger.InfoLogger.Infof("Booking submitted by %s for listing %d", sess.Username, id)
	c.Redirect(http.StatusFound, "/?msg="+url.QueryEscape("Booking successful!"))
}

type confirmForm struct {
	CheckIn       string `form:"checkIn"`
	CheckOut      string `form:"checkOut"`
	Adults        int    `form:"adults"`
	Children      int    `form:"children"`
	SelectedMonth int    `form:"selectedMonth"`
	Year          int    `form:"year"`
}

// Confirm validates the proposed booking, recomputes the amount, calls
// book-and-pay, and renders the checkout page with the issued order. Every
// rejection happens before the payment gateway is ever touched.
func (bc *BookingController) Confirm(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid listing id", "Session": sess})
		return
	}

	var form confirmForm
	if err := c.ShouldBind(&form); err != nil {
		bc.redirectBooking(c, id, "Invalid form data")
		return
	}

	listing, bookings, err := bc.listingAndBookings(c.Request.Context(), sess.Token, id)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Property not found. Please check the property ID.", "Session": sess})
		return
	}

	var (
		amount      float64
		payload     models.BookingPayload
		description string
	)

	if listing.IsResort() {
		checkIn, errIn := time.Parse(dateLayout, form.CheckIn)
		checkOut, errOut := time.Parse(dateLayout, form.CheckOut)
		if errIn != nil || errOut != nil || !checkOut.After(checkIn) {
			bc.redirectBooking(c, id, "Select valid check-in and check-out dates")
			return
		}
		if form.Adults < 1 {
			bc.redirectBooking(c, id, "At least one adult is required")
			return
		}
		// Reject any collision with an occupied date before pricing.
		for d := checkIn; !d.After(checkOut); d = d.AddDate(0, 0, 1) {
			if pricing.IsOccupied(d, bookings) {
				bc.redirectBooking(c, id, "Selected dates collide with an existing booking")
				return
			}
		}

		amount, err = pricing.Nightly(checkIn, checkOut, form.Adults, form.Children, listing.NightlyRate())
		if err != nil {
			bc.redirectBooking(c, id, "Select valid check-in and check-out dates")
			return
		}

		payload = models.BookingPayload{
			UserID:           sess.UserID,
			ListingRequestID: id,
			CheckInDate:      checkIn.Format(dateLayout),
			CheckOutDate:     checkOut.Format(dateLayout),
			Adults:           form.Adults,
			Children:         form.Children,
		}
		description = "Booking for Resort"
	} else {
		if form.SelectedMonth < 1 || form.SelectedMonth > 12 {
			bc.redirectBooking(c, id, "Select a month")
			return
		}
		year := form.Year
		if year == 0 {
			year = time.Now().Year()
		}
		month := time.Month(form.SelectedMonth)
		if pricing.IsMonthOccupied(month, year, bookings) {
			c.Redirect(http.StatusFound, fmt.Sprintf("/bookings/%d?year=%d&err=%s",
				id, year, url.QueryEscape("That month is already booked")))
			return
		}

		amount = pricing.Monthly(month, year, listing.Price)
		payload = models.BookingPayload{
			UserID:           sess.UserID,
			ListingRequestID: id,
			CheckInDate:      pricing.FirstOfMonth(month, year).Format(dateLayout),
			CheckOutDate:     pricing.LastOfMonth(month, year).Format(dateLayout),
		}
		description = "Booking for Monthly Rental"
	}

	if amount <= 0 || math.IsNaN(amount) {
		bc.redirectBooking(c, id, "Invalid booking amount")
		return
	}
	payload.Amount = math.Round(amount*100) / 100

	order, err := bc.Client.BookAndPay(c.Request.Context(), sess.Token, payload)
	if err != nil {
		logger.ErrorLogger.Errorf("book-and-pay failed for listing %d: %v", id, err)
		bc.redirectBooking(c, id, "Failed to initiate payment: "+backendMessage(err))
		return
	}

	options := bc.Verifier.CheckoutOptionsFor(order, sess, description)
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		bc.redirectBooking(c, id, "Failed to initiate payment")
		return
	}

	logger.InfoLogger.Infof("Payment order %s issued for listing %d, amount %d %s",
		order.OrderID, id, order.Amount, order.Currency)

	c.HTML(http.StatusOK, "checkout.html", gin.H{
		"Session":     sess,
		"Listing":     listing,
		"Options":     template.JS(optionsJSON),
		"Amount":      payload.Amount,
		"Booking":     payload,
		"ListingID":   id,
		"OrderID":     order.OrderID,
		"Description": description,
	})
}

// PaymentCallback is the application's own update channel for the gateway:
// the checkout page posts every outcome (success, dismissal, garbage) here
// instead of mutating anything from inside the gateway's handler.
func (bc *BookingController) PaymentCallback(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	listingID, err := strconv.ParseInt(c.PostForm("listingRequestId"), 10, 64)
	if err != nil || listingID <= 0 {
		logger.ErrorLogger.Errorf("Payment callback carried unusable listing id %q", c.PostForm("listingRequestId"))
		c.Redirect(http.StatusFound, "/bookings?err="+url.QueryEscape("Invalid payment response from gateway"))
		return
	}

	var conf clients.PaymentConfirmation
	if err := c.ShouldBind(&conf); err != nil {
		bc.redirectBooking(c, listingID, "Invalid payment response from gateway")
		return
	}

	if err := bc.Verifier.Verify(&conf); err != nil {
		switch {
		case errors.Is(err, clients.ErrPaymentCancelled):
			logger.InfoLogger.Infof("Payment cancelled by %s for listing %d", sess.Username, listingID)
			bc.redirectBooking(c, listingID, "Payment popup closed")
		case errors.Is(err, clients.ErrBadPaymentSignature):
			bc.redirectBooking(c, listingID, "Payment verification failed")
		default:
			bc.redirectBooking(c, listingID, "Invalid payment response from gateway")
		}
		return
	}

	// Occupancy changed; dependent views must not serve stale availability.
	if err := bc.Directory.Refresh(c.Request.Context()); err != nil {
		logger.WarnLogger.Warnf("Directory refresh after payment failed: %v", err)
	}

	listingName := ""
	if listing, err := bc.Directory.Find(c.Request.Context(), listingID); err == nil {
		listingName = listing.Name
	}

	logger.InfoLogger.Infof("Payment %s confirmed for order %s", conf.PaymentID, conf.OrderID)

	c.HTML(http.StatusOK, "invoice.html", gin.H{
		"Session":     sess,
		"ListingName": listingName,
		"ListingID":   listingID,
		"CheckIn":     c.PostForm("checkInDate"),
		"CheckOut":    c.PostForm("checkOutDate"),
		"Adults":      c.PostForm("adults"),
		"Children":    c.PostForm("children"),
		"Amount":      c.PostForm("amount"),
		"OrderID":     conf.OrderID,
		"PaymentID":   conf.PaymentID,
		"IssuedAt":    time.Now().Format("02 Jan 2006 15:04"),
	})
}

// MyBookings renders the caller's booking history.
func (bc *BookingController) MyBookings(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	bookings, err := bc.Client.UserBookings(c.Request.Context(), sess.Token)
	if err != nil {
		logger.WarnLogger.Warnf("Failed to fetch bookings for %s: %v", sess.Username, err)
		c.HTML(http.StatusOK, "my_bookings.html", gin.H{
			"Session": sess,
			"Error":   "Failed to load your bookings.",
		})
		return
	}

	names := map[int64]string{}
	if listings, err := bc.Directory.Listings(c.Request.Context()); err == nil {
		for _, l := range listings {
			names[l.ID] = l.Name
		}
	}

	type row struct {
		models.Booking
		ListingName string
	}
	rows := make([]row, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, row{Booking: b, ListingName: names[b.ListingRequestID]})
	}

	c.HTML(http.StatusOK, "my_bookings.html", gin.H{
		"Session":  sess,
		"Bookings": rows,
		"Error":    c.Query("err"),
	})
}

func (bc *BookingController) redirectBooking(c *gin.Context, listingID int64, msg string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/bookings/%d?err=%s", listingID, url.QueryEscape(msg)))
}

func (bc *BookingController) redirectBookingForm(c *gin.Context, listingID int64, msg string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/bookings/%d/form?err=%s", listingID, url.QueryEscape(msg)))
}

func (bc *BookingController) redirectCalendar(c *gin.Context, listingID int64, month time.Month, year int, msg string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/bookings/%d?month=%d&year=%d&err=%s",
		listingID, int(month), year, url.QueryEscape(msg)))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func backendMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Unknown error"
}
