package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
)

const (
	reviewerKey = "reviewer_id"
	claimsKey   = "validated_claims"
)

// CustomClaims carries the token scopes
type CustomClaims struct {
	Scope string `json:"scope"`
}

// Validate satisfies validator.CustomClaims; scopes are checked per route.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope checks whether the claims include a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, scope := range strings.Fields(c.Scope) {
		if scope == expectedScope {
			return true
		}
	}
	return false
}

// EnsureValidToken validates the Auth0 bearer token and stores the token
// subject as the reviewer for the rest of the request.
func EnsureValidToken(cfg *config.Config) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		validated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			SetClaims(c, token)
			validated = true
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		// the error handler already wrote a 401
		if !validated {
			c.Abort()
		}
	}, nil
}

// SetClaims stores validated claims and their subject on the request
func SetClaims(c *gin.Context, claims *validator.ValidatedClaims) {
	c.Set(reviewerKey, claims.RegisteredClaims.Subject)
	c.Set(claimsKey, claims)
}

// ReviewerID returns the authenticated subject, or "anonymous" when the
// route is not behind EnsureValidToken.
func ReviewerID(c *gin.Context) string {
	if id, ok := c.Get(reviewerKey); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return "anonymous"
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireScope is a middleware that checks if the token has a specific scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_CLAIMS",
					"message": "Could not retrieve token claims",
				},
			})
			c.Abort()
			return
		}

		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.HasScope(scope) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_SCOPE",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
