package cors

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/pkg/config"
)

// New builds the CORS middleware from configuration. An empty origin list, or
// one containing "*", echoes any origin back so credentialed browser calls
// keep working during local development.
func New(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}

	allowed, allowAll := origins(cfg.AllowedOrigins)
	if allowAll || len(allowed) == 0 {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = allowed
	}
	return cors.New(c)
}

// origins normalises the configured list. Entries without an http(s) scheme
// are skipped since gin-contrib/cors refuses them.
func origins(raw []string) ([]string, bool) {
	out := make([]string, 0, len(raw))
	for _, origin := range raw {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch {
		case origin == "*":
			return nil, true
		case strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
			out = append(out, origin)
		}
	}
	return out, false
}
