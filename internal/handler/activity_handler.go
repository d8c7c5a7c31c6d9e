package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/database"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

const activityLogLimit = 500

// ActivityHandler serves the audit log to admins.
type ActivityHandler struct{}

// List returns the most recent audit entries, optionally filtered by action
// or entity type.
func (h *ActivityHandler) List(c echo.Context) error {
	query := database.GetDB().Order("created_at DESC")
	if action := c.QueryParam("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if entityType := c.QueryParam("entity_type"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > activityLogLimit {
		limit = activityLogLimit
	}

	var entries []model.ActivityLog
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := query.Limit(limit).Find(&entries); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list activity log", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve activity log"})
	}

	return c.JSON(http.StatusOK, entries)
}
