package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const reportMetaKey = "report_meta"

// reportMeta collects envelope metadata while a report request is handled.
type reportMeta struct {
	generatedAt time.Time
	cacheHit    *bool
}

// WithResponseMeta stamps report routes with their generation time. Handlers
// add to it with SetCacheHit and read it back with ExtractMeta.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(reportMetaKey, &reportMeta{generatedAt: time.Now().UTC()})
		c.Next()
	}
}

// SetCacheHit records whether the payload came from the dashboard cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	meta := lookupMeta(c)
	if meta == nil {
		meta = &reportMeta{}
		c.Set(reportMetaKey, meta)
	}
	meta.cacheHit = &hit
}

// ExtractMeta renders the collected metadata, or nil when nothing was recorded.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	meta := lookupMeta(c)
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, 2)
	if !meta.generatedAt.IsZero() {
		out["generated_at"] = meta.generatedAt.Format(time.RFC3339)
	}
	if meta.cacheHit != nil {
		out["cache_hit"] = *meta.cacheHit
	}
	return out
}

func lookupMeta(c *gin.Context) *reportMeta {
	if c == nil {
		return nil
	}
	v, ok := c.Get(reportMetaKey)
	if !ok {
		return nil
	}
	meta, _ := v.(*reportMeta)
	return meta
}
