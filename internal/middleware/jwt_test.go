package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

type stubVerifier struct {
	token  string
	claims *models.JWTClaims
}

func (s stubVerifier) Verify(token string) (*models.JWTClaims, error) {
	if token != s.token {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newProtectedRouter(verifier TokenVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(verifier)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	r.GET("/users/:user_id", handlers...)
	return r
}

func TestJWTAcceptsBearerToken(t *testing.T) {
	r := newProtectedRouter(stubVerifier{token: "good", claims: &models.JWTClaims{UserID: 2, Role: models.RoleEmployee}})

	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":2}`, rec.Body.String())
}

func TestJWTRejectsMissingOrInvalidTokens(t *testing.T) {
	r := newProtectedRouter(stubVerifier{token: "good", claims: &models.JWTClaims{UserID: 2}})

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic Zm9vOmJhcg==",
		"empty token":  "Bearer ",
		"bad token":    "Bearer forged",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			var body errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		})
	}
}
