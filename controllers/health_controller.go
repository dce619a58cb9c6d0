package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck handles GET /api/v1/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order reconciliation API is running",
	})
}

// DatabaseStatus handles GET /api/v1/database/status - pings the database and lists its tables
func DatabaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get database instance")
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_CONNECTION_ERROR", "Database connection failed")
			return
		}

		tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
