package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/config"
	rdb "github.com/rentfest/web/config/redis"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/middlewares/cors"
	"github.com/rentfest/web/routes"
	"github.com/rentfest/web/sessions"
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Sessions live in Redis; development without Redis degrades to an
	// in-process store that forgets everything on restart.
	var store sessions.Store
	if client, err := rdb.GetRedisClient(context.Background()); err != nil {
		logger.WarnLogger.Warnf("Redis unavailable (%v); using in-memory session store", err)
		store = sessions.NewMemoryStore()
	} else {
		store = sessions.NewRedisStore(client)
		defer rdb.CloseRedis()
	}

	backend := clients.NewRentfestClient()
	verifier := clients.NewRazorpayVerifier()
	dir := directory.New(backend)

	logger.InfoLogger.Infof("Rentfest backend at %s", backend.BaseURL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	})
	r.LoadHTMLGlob("templates/*.html")

	routes.RegisterAuthRoutes(r, backend, store)
	routes.RegisterListingRoutes(r, backend, dir, store)
	routes.RegisterBookingRoutes(r, backend, dir, verifier, store)
	routes.RegisterAdminRoutes(r, backend, dir, store)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok from rentfest web"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		fmt.Printf("Rentfest web listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed to listen: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down Rentfest web...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Server forced to shutdown: %v\n", err)
	}

	fmt.Println("Server exited gracefully.")
}
