// Package router registers the HTTP routes of the reconciliation API.
package router

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/controllers"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/middleware"
)

// Deps are the collaborators the routes are wired to. Redis is optional.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Reconciler controllers.Reconciler
	Redis      *redis.Client
	Logger     *slog.Logger
}

// Setup registers all routes on r. Review routes require a valid token
// when AUTH0_DOMAIN is configured, and the mutating ones also require the
// reconcile scope.
func Setup(r *gin.Engine, d Deps) error {
	r.Use(cors.New(corsConfig(d.Config)))

	photos := controllers.NewPhotoController(d.Reconciler, d.Logger)
	items := controllers.NewOrderItemController(d.Reconciler, d.Logger)
	facilities := controllers.NewFacilityController(d.Reconciler)

	var authenticated, reconcile []gin.HandlerFunc
	if d.Config.AuthEnabled() {
		guard, err := middleware.EnsureValidToken(d.Config)
		if err != nil {
			return fmt.Errorf("failed to configure token validation: %w", err)
		}
		authenticated = []gin.HandlerFunc{guard}
		reconcile = []gin.HandlerFunc{guard, middleware.RequireScope(d.Config.ReconcileScope)}
	}

	submit := []gin.HandlerFunc{}
	if d.Redis != nil {
		submit = append(submit, middleware.FacilityRateLimit(d.Redis, d.Config.SubmitRateLimit, d.Config.SubmitRateWindow))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus(d.DB))

		v1.POST("/facilities/:facilityId/completion-photos", append(submit, photos.Submit)...)
		v1.GET("/facilities/:facilityId/available-order-items", facilities.AvailableItems)

		review := v1.Group("", authenticated...)
		review.GET("/completion-photos", photos.List)
		review.GET("/completion-photos/:id", photos.Get)

		mutate := v1.Group("", reconcile...)
		mutate.POST("/completion-photos/:id/assign", photos.Assign)
		mutate.POST("/completion-photos/:id/unmatch", photos.Unmatch)
		mutate.POST("/order-items/:id/complete", items.Complete)
		mutate.POST("/order-items/:id/uncomplete", items.Uncomplete)
	}

	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	return c
}
