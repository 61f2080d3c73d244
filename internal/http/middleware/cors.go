package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8501",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:8501",
}

// CORS allows the given origins, the local dev origins when none are set, or
// every origin when the list contains "*".
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id", "X-Trace-Id"},
	}
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}
	switch {
	case len(allowed) == 0:
		cfg.AllowOrigins = defaultOrigins
		cfg.AllowCredentials = true
	case contains(allowed, "*"):
		cfg.AllowAllOrigins = true
	default:
		cfg.AllowOrigins = allowed
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
