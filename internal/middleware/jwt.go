package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markbook/markbook-backend/internal/response"
	"github.com/markbook/markbook-backend/internal/service"
)

// ContextKeyClaims is the Gin context key holding the validated JWT claims.
const ContextKeyClaims = "claims"

// RequireStudentJWT admits only bearer tokens of the student type.
func RequireStudentJWT(auth *service.AuthService) gin.HandlerFunc {
	return requireBearer(auth, service.TokenTypeStudent, response.ErrStudentAccessOnly)
}

// RequireStaffJWT admits only bearer tokens of the staff type.
func RequireStaffJWT(auth *service.AuthService) gin.HandlerFunc {
	return requireBearer(auth, service.TokenTypeStaff, response.ErrStaffAccessOnly)
}

func requireBearer(auth *service.AuthService, want service.TokenType, forbidden response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if claims.TokenType != want {
			response.AbortFail(c, http.StatusForbidden, forbidden)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireStaffWSAuth validates a staff JWT passed as ?token=... — browser
// WebSocket clients cannot set an Authorization header on the upgrade
// request.
func RequireStaffWSAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if claims.TokenType != service.TokenTypeStaff {
			response.AbortFail(c, http.StatusForbidden, response.ErrStaffAccessOnly)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims returns the claims a Require* middleware stored, or nil when the
// route was reached without one.
func GetClaims(c *gin.Context) *service.Claims {
	val, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, _ := val.(*service.Claims)
	return claims
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("missing bearer token")
	}
	return parts[1], nil
}
