package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

func serveAs(t *testing.T, claims *models.JWTClaims, path string) int {
	t.Helper()
	r := newProtectedRouter(stubVerifier{token: "t", claims: claims}, AdminOrSelf("user_id"))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdminOrSelf(t *testing.T) {
	admin := &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}
	employee := &models.JWTClaims{UserID: 2, Role: models.RoleEmployee}

	assert.Equal(t, http.StatusOK, serveAs(t, admin, "/users/3"))
	assert.Equal(t, http.StatusOK, serveAs(t, employee, "/users/2"))
	assert.Equal(t, http.StatusForbidden, serveAs(t, employee, "/users/3"))
	assert.Equal(t, http.StatusForbidden, serveAs(t, employee, "/users/abc"))
}

func TestRequireRolesForbidsEmployees(t *testing.T) {
	r := newProtectedRouter(stubVerifier{token: "t", claims: &models.JWTClaims{UserID: 2, Role: models.RoleEmployee}}, RequireRoles(models.RoleAdmin))
	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}
