package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/controllers/listing_controller"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/middlewares/auth"
	"github.com/rentfest/web/sessions"
)

func RegisterListingRoutes(router *gin.Engine, client *clients.RentfestClient, dir *directory.Directory, store sessions.Store) {
	listingController := listing_controller.NewListingController(client, dir)

	// Public pages; the session, when present, only shapes the navbar.
	public := router.Group("/")
	public.Use(auth.OptionalSession(store))
	{
		public.GET("/", listingController.Home)
		public.GET("/properties", listingController.PropertyList)
		public.GET("/properties/:id", listingController.PropertyDetails)
	}

	// Submitting a listing request needs a session.
	protected := router.Group("/")
	protected.Use(auth.RequireSession(store))
	{
		protected.GET("/requests/new", listingController.ShowCreateRequest)
		protected.POST("/requests", listingController.CreateRequest)
	}
}
