package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/smart-attendance-api/pkg/config"
)

func serve(cfg config.CORSConfig, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(cfg))
	r.Any("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	rec := serve(config.CORSConfig{}, http.MethodGet, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	rec := serve(config.CORSConfig{AllowedOrigins: []string{"https://hr.example.com/"}}, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(config.CORSConfig{AllowedOrigins: []string{"https://hr.example.com/"}}, http.MethodGet, "https://hr.example.com")
	assert.Equal(t, "https://hr.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(config.CORSConfig{}, http.MethodOptions, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWildcardAndMalformedEntries(t *testing.T) {
	list, all := origins([]string{" https://a.example.com/ ", "ftp://nope", "hr.example.com"})
	assert.False(t, all)
	assert.Equal(t, []string{"https://a.example.com"}, list)

	_, all = origins([]string{"https://a.example.com", "*"})
	assert.True(t, all)
}

func TestCORSSkipsRequestsWithoutOrigin(t *testing.T) {
	rec := serve(config.CORSConfig{AllowedOrigins: []string{"https://hr.example.com"}}, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
