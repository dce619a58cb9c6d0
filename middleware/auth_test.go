package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
)

func TestCustomClaims_HasScope(t *testing.T) {
	tests := []struct {
		name          string
		scope         string
		expectedScope string
		want          bool
	}{
		{"has exact scope", "orders:reconcile", "orders:reconcile", true},
		{"has scope in multiple scopes", "orders:read orders:reconcile", "orders:reconcile", true},
		{"extra whitespace", "  orders:read   orders:reconcile ", "orders:reconcile", true},
		{"does not have scope", "orders:read", "orders:reconcile", false},
		{"empty scope", "", "orders:reconcile", false},
		{"partial match should not work", "orders:reconcile", "orders", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := CustomClaims{Scope: tt.scope}
			assert.Equal(t, tt.want, claims.HasScope(tt.expectedScope))
		})
	}
}

func TestReviewerID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "anonymous", ReviewerID(c))

	c.Set(reviewerKey, 12345)
	assert.Equal(t, "anonymous", ReviewerID(c), "non-string subjects are ignored")

	c.Set(reviewerKey, "auth0|123456")
	assert.Equal(t, "auth0|123456", ReviewerID(c))
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				c.Set(claimsKey, &validator.ValidatedClaims{
					RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|123456"},
					CustomClaims:     &CustomClaims{Scope: "orders:reconcile"},
				})
			},
		},
		{
			name:      "claims not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "claims are not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set(claimsKey, "invalid")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupFunc(c)

			claims, err := GetClaims(c)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	withScope := func(scope string) func(*gin.Context) {
		return func(c *gin.Context) {
			c.Set(claimsKey, &validator.ValidatedClaims{CustomClaims: &CustomClaims{Scope: scope}})
		}
	}

	tests := []struct {
		name           string
		setupFunc      func(*gin.Context)
		wantStatusCode int
		wantAborted    bool
	}{
		{"has required scope", withScope("orders:read orders:reconcile"), 0, false},
		{"missing required scope", withScope("orders:read"), http.StatusForbidden, true},
		{"claims not in context", func(c *gin.Context) {}, http.StatusUnauthorized, true},
		{"claims without custom claims", func(c *gin.Context) {
			c.Set(claimsKey, &validator.ValidatedClaims{})
		}, http.StatusForbidden, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/test", nil)
			tt.setupFunc(c)

			RequireScope("orders:reconcile")(c)

			if tt.wantAborted {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tt.wantStatusCode, w.Code)
			} else {
				assert.False(t, c.IsAborted())
			}
		})
	}
}

func TestEnsureValidToken_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	guard, err := EnsureValidToken(&config.Config{Auth0Domain: "example.auth0.com", Auth0Audience: "https://api.example.com"})
	require.NoError(t, err)

	called := false
	router := gin.New()
	router.GET("/protected", guard, func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	assert.False(t, called, "handler must not run without a valid token")
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Code: "TEST_ERROR", Message: "This is a test error"}
	assert.Equal(t, "This is a test error", err.Error())
}
