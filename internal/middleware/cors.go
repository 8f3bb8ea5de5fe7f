package middleware

import (
	"os"
	"strings"

	"homecare-rental/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig allows any origin outside production. In production only the
// origins in CORS_ALLOWED_ORIGINS are allowed, none when it is empty.
func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()

	allowed := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if config.IsProduction() {
		corsConfig.AllowOrigins = config.SplitAndTrim(allowed)
		if len(corsConfig.AllowOrigins) == 0 {
			// cors.New panics on an empty allowlist without AllowOriginFunc
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	return corsConfig
}

func CORSMiddleware() gin.HandlerFunc {
	return cors.New(CORSConfig())
}
