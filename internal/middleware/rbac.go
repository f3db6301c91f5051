package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

// selfPrefix marks an RBAC entry that matches the caller against a path parameter.
const selfPrefix = "SELF:"

// Self allows a caller whose id matches the given path parameter.
func Self(param string) string {
	return selfPrefix + param
}

// RBAC enforces role-based access control for routes. Entries are role names
// or Self(param) markers.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowedRoles := make(map[models.UserRole]struct{})
	selfParams := make([]string, 0)
	for _, a := range allowed {
		if param, ok := strings.CutPrefix(a, selfPrefix); ok && param != "" {
			selfParams = append(selfParams, param)
			continue
		}
		allowedRoles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		for _, param := range selfParams {
			if id, err := strconv.Atoi(c.Param(param)); err == nil && id == claims.UserID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}

// AdminOrSelf admits administrators and the user named by the path parameter.
func AdminOrSelf(param string) gin.HandlerFunc {
	return RBAC(string(models.RoleAdmin), Self(param))
}
