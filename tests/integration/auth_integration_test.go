package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/controllers"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/middleware"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/services"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/tests/testutil"
)

const reconcileScope = "orders:reconcile"

// AuthIntegrationTestSuite checks scope enforcement on the mutating routes
// with token validation replaced by fixed claims
type AuthIntegrationTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *services.ReconciliationService
}

// SetupSuite runs once before all tests
func (suite *AuthIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *AuthIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.svc = services.NewReconciliationService(suite.db, services.NewImageService(services.NewMockS3Service()), services.ReconciliationOptions{
		NormalizeSize: 32,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// routerAs builds the order item routes behind claims for subject with scopes
func (suite *AuthIntegrationTestSuite) routerAs(subject string, scopes ...string) *gin.Engine {
	items := controllers.NewOrderItemController(suite.svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := gin.New()
	api := r.Group("/api/v1", testutil.MockAuth(subject, scopes...), middleware.RequireScope(reconcileScope))
	api.POST("/order-items/:id/complete", items.Complete)
	api.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": middleware.ReviewerID(c)})
	})
	return r
}

func (suite *AuthIntegrationTestSuite) serve(r *gin.Engine, method, path string) (int, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func (suite *AuthIntegrationTestSuite) TestMissingScopeIsForbidden() {
	order := testutil.CreateOrder(suite.T(), suite.db, 1, models.OrderStatusPrinting, testutil.ItemSeed{})
	r := suite.routerAs("auth0|viewer", "orders:read")

	code, body := suite.serve(r, http.MethodPost, fmt.Sprintf("/api/v1/order-items/%d/complete", order.Items[0].ID))

	suite.Equal(http.StatusForbidden, code)
	suite.Equal("INSUFFICIENT_SCOPE", body["error"].(map[string]interface{})["code"])
	suite.Equal(models.CompletionPending, testutil.ReloadItem(suite.T(), suite.db, order.Items[0].ID).CompletionStatus)
}

func (suite *AuthIntegrationTestSuite) TestReconcileScopeAllowsCompletion() {
	order := testutil.CreateOrder(suite.T(), suite.db, 1, models.OrderStatusPrinting, testutil.ItemSeed{})
	r := suite.routerAs("auth0|reviewer", "orders:read", reconcileScope)

	code, _ := suite.serve(r, http.MethodPost, fmt.Sprintf("/api/v1/order-items/%d/complete", order.Items[0].ID))

	suite.Equal(http.StatusOK, code)
	suite.Equal(models.OrderStatusCompleted, testutil.ReloadOrder(suite.T(), suite.db, order.ID).Status)
}

func (suite *AuthIntegrationTestSuite) TestReviewerIDComesFromSubject() {
	r := suite.routerAs("auth0|reviewer", reconcileScope)

	code, body := suite.serve(r, http.MethodGet, "/api/v1/whoami")

	suite.Equal(http.StatusOK, code)
	suite.Equal("auth0|reviewer", body["data"])
}

// TestAuthIntegrationSuite runs the test suite
func TestAuthIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
