package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures CORS for the API. With no origins configured every
// origin is allowed, which suits local development where the web client runs
// on an arbitrary port; deployments list their frontend origins explicitly.
func SetupCORS(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		// The API surface only uses GET, POST and PUT; OPTIONS is the preflight
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           time.Hour,
	}

	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
	}

	return cors.New(config)
}
