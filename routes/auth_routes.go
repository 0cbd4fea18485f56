package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/controllers/auth_controller"
	middleware "github.com/rentfest/web/middlewares"
	"github.com/rentfest/web/sessions"
)

func RegisterAuthRoutes(router *gin.Engine, client *clients.RentfestClient, store sessions.Store) {
	authController := auth_controller.NewAuthController(client, store)

	router.GET("/login", authController.ShowLogin)
	router.POST("/login", middleware.CombinedRateLimiter("login", "10-2m", "30-30m"), authController.Login)
	router.GET("/signup", authController.ShowRegister)
	router.POST("/signup", middleware.CombinedRateLimiter("register", "10-2m", "30-60m"), authController.Register)
	router.POST("/logout", authController.Logout)
}
