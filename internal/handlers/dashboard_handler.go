package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/reports"
	"github.com/mhnazary/school-managment-system/models"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardStatsHandler returns the headline counters and totals. The result
// is cached in Redis briefly so the landing page does not hammer the
// aggregate queries.
func DashboardStatsHandler(c *gin.Context) {
	if config.RDB != nil {
		if cached, err := config.RDB.Get(config.Ctx, dashboardCacheKey).Result(); err == nil {
			var stats reports.DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				c.JSON(http.StatusOK, stats)
				return
			}
		}
	}

	stats, err := reports.New(config.DB).Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if config.RDB != nil {
		if payload, err := json.Marshal(stats); err == nil {
			config.RDB.Set(config.Ctx, dashboardCacheKey, payload, dashboardCacheTTL)
		}
	}
	c.JSON(http.StatusOK, stats)
}

// RecentPaymentsHandler lists the latest tuition payments for the dashboard.
func RecentPaymentsHandler(c *gin.Context) {
	var payments []models.TuitionPayment
	err := config.DB.WithContext(c.Request.Context()).
		Preload("Student").
		Order("date DESC, id DESC").
		Limit(10).
		Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recent payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}
