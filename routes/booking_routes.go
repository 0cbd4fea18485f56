package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/controllers/booking_controller"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/middlewares/auth"
	"github.com/rentfest/web/sessions"
)

func RegisterBookingRoutes(router *gin.Engine, client *clients.RentfestClient, dir *directory.Directory, verifier *clients.RazorpayVerifier, store sessions.Store) {
	bookingController := booking_controller.NewBookingController(client, dir, verifier)

	protected := router.Group("/")
	protected.Use(auth.RequireSession(store))
	{
		protected.GET("/bookings", bookingController.MyBookings)
		protected.GET("/bookings/:id", bookingController.Availability)
		protected.POST("/bookings/:id", bookingController.Confirm)
		protected.GET("/bookings/:id/form", bookingController.ShowBookingForm)
		protected.POST("/bookings/:id/form", bookingController.SubmitBookingForm)
		protected.POST("/payments/callback", bookingController.PaymentCallback)
	}
}
