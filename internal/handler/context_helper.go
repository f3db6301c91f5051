package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/middleware"
	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// intParam parses a positive integer path parameter.
func intParam(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return value, nil
}

// intQuery parses an optional integer query parameter; absent means zero.
func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return value, nil
}

// canActFor reports whether the caller may operate on userID's records.
func canActFor(claims *models.JWTClaims, userID int) bool {
	return claims != nil && (claims.IsAdmin() || claims.UserID == userID)
}
