package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Interface-corporation/grow-movement-app/internal/activity"
	"github.com/Interface-corporation/grow-movement-app/internal/middleware"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/database"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

// CoachHandler serves coach applications and the staff coach roster.
type CoachHandler struct {
	Recorder *activity.Recorder
}

// List returns coaches newest-first with an optional status filter.
func (h *CoachHandler) List(c echo.Context) error {
	query := database.GetDB().Order("created_at DESC")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var coaches []model.Coach
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := query.Find(&coaches); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list coaches", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve coaches"})
	}
	return c.JSON(http.StatusOK, coaches)
}

// Apply creates a new coach application in Pending status.
func (h *CoachHandler) Apply(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name           string `json:"name" validate:"required"`
		Email          string `json:"email" validate:"required,email"`
		Organization   string `json:"organization"`
		Specialization string `json:"specialization"`
		Bio            string `json:"bio"`
		Country        string `json:"country"`
		Experience     string `json:"experience"`
		Availability   string `json:"availability"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse coach application", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// One coach record per email.
	var count int64
	database.GetDB().Model(&model.Coach{}).Where("LOWER(email) = ?", email).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a coach application with this email already exists"})
	}

	coach := model.Coach{
		Name:           req.Name,
		Email:          email,
		Organization:   req.Organization,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		Country:        req.Country,
		Experience:     req.Experience,
		Availability:   req.Availability,
		Status:         model.CoachStatusPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&coach); result.Error != nil {
		log.Error("Failed to create coach application", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "application failed"})
	}

	log.Info("Coach application received",
		zap.String("id", coach.ID),
		zap.String("email", coach.Email))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Application submitted successfully",
		"coach":   coach,
	})
}

// Accept moves a pending coach application to Accepted.
func (h *CoachHandler) Accept(c echo.Context) error {
	return h.review(c, model.CoachStatusAccepted, "Admitted coach", "admit")
}

// Reject moves a coach application to Rejected.
func (h *CoachHandler) Reject(c echo.Context) error {
	return h.review(c, model.CoachStatusRejected, "Rejected coach", "reject")
}

func (h *CoachHandler) review(c echo.Context, status, action, decision string) error {
	log := logger.FromEcho(c)

	var coach model.Coach
	if result := database.GetDB().First(&coach, "id = ?", c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(&coach).Update("status", status); result.Error != nil {
		log.Error("Failed to update coach status", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update coach"})
	}

	var actorID *string
	if claims := middleware.CurrentClaims(c); claims != nil {
		actorID = &claims.UserID
	}
	h.Recorder.Record(action, "coach", coach.ID, nil, actorID)
	prometheus.RecordApplicationDecision("coach", decision)

	return c.JSON(http.StatusOK, echo.Map{"message": action})
}
