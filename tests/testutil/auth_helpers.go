package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// MockAuth stands in for EnsureValidToken, authenticating every request as subject
func MockAuth(subject string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetClaims(c, MockValidatedClaims(subject, scopes))
		c.Next()
	}
}
