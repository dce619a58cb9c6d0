package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/services"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/tests/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:            "test",
		ReconcileScope:   "orders:reconcile",
		NormalizeSize:    32,
		ScoringWorkers:   2,
		SubmitRateLimit:  5,
		SubmitRateWindow: time.Minute,
		DesignCacheTTL:   time.Minute,
	}
}

func setupRouter(t *testing.T, cfg *config.Config, rdb *redis.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewReconciliationService(db, services.NewImageService(services.NewMockS3Service()), services.ReconciliationOptions{
		NormalizeSize: cfg.NormalizeSize,
		Logger:        logger,
	})

	r := gin.New()
	require.NoError(t, Setup(r, Deps{Config: cfg, DB: db, Reconciler: svc, Redis: rdb, Logger: logger}))
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func photoUpload(t *testing.T, path string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", "shirt.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.GradientPNG(t, 16, 16))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(t, testConfig(), nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order reconciliation API is running", body["message"])
}

func TestDatabaseStatus(t *testing.T) {
	r := setupRouter(t, testConfig(), nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/database/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Database connected", body["message"])
	assert.Subset(t, body["tables"], []interface{}{"orders", "order_items", "completion_photos"})
}

func TestRouting(t *testing.T) {
	r := setupRouter(t, testConfig(), nil)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"health without version prefix", http.MethodGet, "/health", http.StatusNotFound},
		{"health with wrong method", http.MethodPost, "/api/v1/health", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/v1/orders", http.StatusNotFound},
		{"photo list", http.MethodGet, "/api/v1/completion-photos", http.StatusOK},
		{"unknown photo", http.MethodGet, "/api/v1/completion-photos/42", http.StatusNotFound},
		{"available items", http.MethodGet, "/api/v1/facilities/1/available-order-items", http.StatusOK},
		{"unmatch with GET", http.MethodGet, "/api/v1/completion-photos/1/unmatch", http.StatusNotFound},
		{"uncomplete unknown item", http.MethodPost, "/api/v1/order-items/42/uncomplete", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthGuards(t *testing.T) {
	cfg := testConfig()
	cfg.Auth0Domain = "test.auth0.com"
	cfg.Auth0Audience = "https://api.test.com"
	r := setupRouter(t, cfg, nil)

	guarded := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/completion-photos"},
		{http.MethodGet, "/api/v1/completion-photos/1"},
		{http.MethodPost, "/api/v1/completion-photos/1/assign"},
		{http.MethodPost, "/api/v1/completion-photos/1/unmatch"},
		{http.MethodPost, "/api/v1/order-items/1/complete"},
		{http.MethodPost, "/api/v1/order-items/1/uncomplete"},
	}
	for _, g := range guarded {
		t.Run(g.method+" "+g.path, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(g.method, g.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("invalid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/completion-photos", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("facility routes stay open to capture stations", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/facilities/1/available-order-items", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = serve(r, photoUpload(t, "/api/v1/facilities/1/completion-photos"))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("health is public", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		r := setupRouter(t, testConfig(), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", "https://review.example.com")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origins only", func(t *testing.T) {
		cfg := testConfig()
		cfg.CORSOrigins = []string{"https://review.example.com"}
		r := setupRouter(t, cfg, nil)

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/completion-photos", nil)
		req.Header.Set("Origin", "https://review.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := serve(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://review.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", "https://elsewhere.example.com")
		w = serve(r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSubmitRateLimitFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	r := setupRouter(t, testConfig(), rdb)

	for i := 0; i < testConfig().SubmitRateLimit+1; i++ {
		w := serve(r, photoUpload(t, "/api/v1/facilities/1/completion-photos"))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
