package handler

import (
	"net/http"
	"strconv"
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

const defaultPageSize = 20

// EntrepreneurHandler serves the public directory and the application review
// flow.
type EntrepreneurHandler struct {
	Recorder *activity.Recorder
}

// List returns entrepreneurs newest-first with optional status, sector,
// country and search filters.
func (h *EntrepreneurHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	query := database.GetDB().Model(&model.Entrepreneur{}).Order("created_at DESC")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if sector := c.QueryParam("sector"); sector != "" {
		query = query.Where("sector = ?", sector)
	}
	if country := c.QueryParam("country"); country != "" {
		query = query.Where("country = ?", country)
	}
	if search := c.QueryParam("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR business_name ILIKE ?", like, like)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size <= 0 || size > 100 {
		size = defaultPageSize
	}

	var entrepreneurs []model.Entrepreneur
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := query.Offset(page * size).Limit(size).Find(&entrepreneurs); result.Error != nil {
		log.Error("Failed to list entrepreneurs", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve entrepreneurs"})
	}

	return c.JSON(http.StatusOK, entrepreneurs)
}

// Get returns one entrepreneur profile.
func (h *EntrepreneurHandler) Get(c echo.Context) error {
	var entrepreneur model.Entrepreneur
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&entrepreneur, "id = ?", c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "entrepreneur not found"})
	}
	return c.JSON(http.StatusOK, entrepreneur)
}

// Apply creates a new entrepreneur application in Pending status.
func (h *EntrepreneurHandler) Apply(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name                string `json:"name" validate:"required"`
		BusinessName        string `json:"business_name" validate:"required"`
		Country             string `json:"country" validate:"required"`
		Sector              string `json:"sector" validate:"required"`
		Stage               string `json:"stage"`
		Gender              string `json:"gender"`
		Email               string `json:"email" validate:"omitempty,email"`
		Phone               string `json:"phone"`
		PitchSummary        string `json:"pitch_summary"`
		BusinessDescription string `json:"business_description"`
		AboutEntrepreneur   string `json:"about_entrepreneur"`
		CoachingNeeds       string `json:"coaching_needs"`
		Website             string `json:"website"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse entrepreneur application", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entrepreneur := model.Entrepreneur{
		Name:                req.Name,
		BusinessName:        req.BusinessName,
		Country:             req.Country,
		Sector:              req.Sector,
		Stage:               req.Stage,
		Gender:              req.Gender,
		Email:               req.Email,
		Phone:               req.Phone,
		PitchSummary:        req.PitchSummary,
		BusinessDescription: req.BusinessDescription,
		AboutEntrepreneur:   req.AboutEntrepreneur,
		CoachingNeeds:       req.CoachingNeeds,
		Website:             req.Website,
		Status:              model.EntrepreneurStatusPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&entrepreneur); result.Error != nil {
		log.Error("Failed to create entrepreneur application", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "application failed"})
	}

	log.Info("Entrepreneur application received",
		zap.String("id", entrepreneur.ID),
		zap.String("business_name", entrepreneur.BusinessName))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Application submitted successfully",
		"entrepreneur": entrepreneur,
	})
}

// Admit moves a pending application to Admitted.
func (h *EntrepreneurHandler) Admit(c echo.Context) error {
	return h.review(c, model.EntrepreneurStatusAdmitted, "Admitted entrepreneur", "admit")
}

// Reject moves an application to Rejected.
func (h *EntrepreneurHandler) Reject(c echo.Context) error {
	return h.review(c, model.EntrepreneurStatusRejected, "Rejected entrepreneur", "reject")
}

func (h *EntrepreneurHandler) review(c echo.Context, status, action, decision string) error {
	log := logger.FromEcho(c)

	var entrepreneur model.Entrepreneur
	if result := database.GetDB().First(&entrepreneur, "id = ?", c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "entrepreneur not found"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(&entrepreneur).Update("status", status); result.Error != nil {
		log.Error("Failed to update entrepreneur status", zap.Error(result.Error))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update entrepreneur"})
	}

	var actorID *string
	if claims := middleware.CurrentClaims(c); claims != nil {
		actorID = &claims.UserID
	}
	h.Recorder.Record(action, "entrepreneur", entrepreneur.ID, nil, actorID)
	prometheus.RecordApplicationDecision("entrepreneur", decision)

	return c.JSON(http.StatusOK, echo.Map{"message": action})
}
