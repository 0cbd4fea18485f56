package clients

import (
	"errors"
	"os"

	"github.com/razorpay/razorpay-go/utils"

	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
)

var (
	// ErrPaymentCancelled marks a user-dismissed checkout overlay. Distinct
	// from a gateway failure: nothing went wrong, the user backed out.
	ErrPaymentCancelled = errors.New("payment cancelled by user")

	// ErrInvalidPaymentResponse marks a gateway callback missing its order or
	// payment reference. Never treated as success.
	ErrInvalidPaymentResponse = errors.New("invalid payment response from gateway")

	// ErrBadPaymentSignature marks a callback whose signature failed
	// verification against the configured key secret.
	ErrBadPaymentSignature = errors.New("payment signature verification failed")
)

// CheckoutOptions is the configuration handed to the hosted checkout
// overlay. Amount is in minor currency units.
type CheckoutOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
	Prefill     CheckoutPrefill `json:"prefill"`
	Theme       CheckoutTheme   `json:"theme"`
}

type CheckoutPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type CheckoutTheme struct {
	Color string `json:"color"`
}

// PaymentConfirmation is the payload the checkout handler posts back to the
// application's own callback route. Cancelled is set when the overlay was
// dismissed instead of completed.
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature"`
	Cancelled bool   `json:"cancelled" form:"cancelled"`
}

// RazorpayVerifier validates payment confirmations coming back from the
// hosted checkout and builds the options the overlay is opened with.
type RazorpayVerifier struct {
	KeySecret string
}

// NewRazorpayVerifier reads RAZORPAY_KEY_SECRET. When the secret is absent
// (the backend alone settles payments), shape validation still applies and
// only the signature check is skipped.
func NewRazorpayVerifier() *RazorpayVerifier {
	return &RazorpayVerifier{KeySecret: os.Getenv("RAZORPAY_KEY_SECRET")}
}

// CheckoutOptionsFor builds overlay options from a backend-issued payment
// order and the active session's profile.
func (rv *RazorpayVerifier) CheckoutOptionsFor(order *models.PaymentOrder, sess *models.Session, description string) CheckoutOptions {
	return CheckoutOptions{
		Key:         order.Key,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        "Rentfest",
		Description: description,
		OrderID:     order.OrderID,
		Prefill: CheckoutPrefill{
			Name:    sess.Username,
			Email:   sess.Email,
			Contact: "9999999999",
		},
		Theme: CheckoutTheme{Color: "#3399cc"},
	}
}

// Verify checks a payment confirmation. Both the order and payment
// references must be present; when a key secret is configured the signature
// is verified with the SDK helper.
func (rv *RazorpayVerifier) Verify(conf *PaymentConfirmation) error {
	if conf.Cancelled {
		return ErrPaymentCancelled
	}
	if conf.OrderID == "" || conf.PaymentID == "" {
		logger.ErrorLogger.Errorf("Gateway confirmation missing references: order=%q payment=%q", conf.OrderID, conf.PaymentID)
		return ErrInvalidPaymentResponse
	}

	if rv.KeySecret == "" {
		logger.WarnLogger.Warn("RAZORPAY_KEY_SECRET not set; skipping payment signature verification")
		return nil
	}

	params := map[string]interface{}{
		"razorpay_order_id":   conf.OrderID,
		"razorpay_payment_id": conf.PaymentID,
	}
	if !utils.VerifyPaymentSignature(params, conf.Signature, rv.KeySecret) {
		logger.ErrorLogger.Errorf("Signature verification failed for order %s", conf.OrderID)
		return ErrBadPaymentSignature
	}
	return nil
}
