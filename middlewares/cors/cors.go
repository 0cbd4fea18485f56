package cors

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/config"
)

// CorsMiddleware returns the CORS policy for the app. Origins come from
// ALLOWED_ORIGINS (comma separated); the default covers local development.
func CorsMiddleware() gin.HandlerFunc {
	origins := strings.Split(config.GetEnv("ALLOWED_ORIGINS", "http://localhost:8080"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
