package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/controllers/admin_controller"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/middlewares/auth"
	"github.com/rentfest/web/sessions"
)

func RegisterAdminRoutes(router *gin.Engine, client *clients.RentfestClient, dir *directory.Directory, store sessions.Store) {
	adminController := admin_controller.NewAdminController(client, dir)

	admin := router.Group("/admin")
	admin.Use(auth.RequireSession(store), auth.RequireAdmin())
	{
		admin.GET("", adminController.Dashboard)
		admin.GET("/requests/:userId", adminController.ShowRequest)
		admin.POST("/requests/:userId", adminController.UpdateStatus)
	}
}
