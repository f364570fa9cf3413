package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-bff/internal/auth"
)

// corsMiddleware allows the web frontend to call the API and read the
// session header. Production only trusts PROD_ORIGINS.
func corsMiddleware(isProduction bool, prodOrigins string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:3000", // Frontend dev server
		"http://localhost:8081", // Swagger
	}
	if isProduction {
		config.AllowOrigins = splitOrigins(prodOrigins)
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.SessionHeader}
	config.ExposeHeaders = []string{auth.SessionHeader}
	config.MaxAge = 12 * time.Hour
	return cors.New(config)
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
