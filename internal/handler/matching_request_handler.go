package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Interface-corporation/grow-movement-app/internal/cart"
	"github.com/Interface-corporation/grow-movement-app/internal/matching"
	"github.com/Interface-corporation/grow-movement-app/internal/middleware"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

// MatchingRequestHandler exposes matching request submission and lifecycle.
type MatchingRequestHandler struct {
	Engine *matching.Engine
	Carts  *cart.Manager
}

// Submit persists a matching request built from the caller's selection cart.
// The cart is cleared only after the insert succeeds, so a failed submission
// leaves it intact for retry.
func (h *MatchingRequestHandler) Submit(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.MatchingRequestCounter.Inc()

	sessionID := c.Request().Header.Get(SessionHeader)
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": SessionHeader + " header is required"})
	}
	sessionCart := h.Carts.Get(sessionID)

	var req struct {
		Name               string `json:"name"`
		Email              string `json:"email"`
		Organization       string `json:"organization"`
		Role               string `json:"role"`
		Message            string `json:"message"`
		SupportDescription string `json:"support_description"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse matching request submission", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	items := sessionCart.Items()
	selections := make([]model.Selection, len(items))
	for i, item := range items {
		selections[i] = model.Selection{
			EntrepreneurID: item.EntrepreneurID,
			Name:           item.Name,
			BusinessName:   item.BusinessName,
			Priority:       item.Priority,
		}
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	request, err := h.Engine.SubmitRequest(matching.RequestSubmission{
		Name:               req.Name,
		Email:              req.Email,
		Organization:       req.Organization,
		Role:               req.Role,
		Message:            req.Message,
		SupportDescription: req.SupportDescription,
		Selections:         selections,
	})
	if err != nil {
		switch {
		case matching.IsValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, matching.ErrCoachNotVerified):
			prometheus.CoachVerificationFailureCounter.Inc()
			log.Warn("Coach verification failed", zap.String("email", req.Email))
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "this email is not registered as an accepted coach; only verified coaches can submit matching requests",
			})
		default:
			log.Error("Failed to persist matching request", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit matching request"})
		}
	}

	// Insert succeeded, now it is safe to empty the selection.
	sessionCart.Clear()
	prometheus.RecordRequestStatus(model.RequestStatusPending)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Matching request submitted successfully",
		"request": request,
	})
}

// List returns all matching requests for staff, optionally filtered by status.
func (h *MatchingRequestHandler) List(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	requests, err := h.Engine.ListRequests(c.QueryParam("status"))
	if err != nil {
		logger.FromEcho(c).Error("Failed to list matching requests", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve matching requests"})
	}
	return c.JSON(http.StatusOK, requests)
}

// ListMine returns the authenticated coach's own requests, newest first.
func (h *MatchingRequestHandler) ListMine(c echo.Context) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	requests, err := h.Engine.ListRequestsByEmail(claims.Email)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list own matching requests", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve matching requests"})
	}
	return c.JSON(http.StatusOK, requests)
}

// SetStatus is the admin-discretion status transition.
func (h *MatchingRequestHandler) SetStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.CurrentClaims(c)

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var actorID *string
	if claims != nil {
		actorID = &claims.UserID
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := h.Engine.SetRequestStatus(c.Param("id"), req.Status, actorID)
	if err != nil {
		switch {
		case matching.IsValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, matching.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "matching request not found"})
		default:
			log.Error("Failed to update matching request status", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update matching request"})
		}
	}

	prometheus.RecordRequestStatus(req.Status)
	return c.JSON(http.StatusOK, echo.Map{"message": "Matching request updated"})
}

// Cancel is the requester-initiated transition, allowed only while pending.
func (h *MatchingRequestHandler) Cancel(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := h.Engine.CancelRequest(c.Param("id"), claims.Email, &claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "matching request not found"})
		case errors.Is(err, matching.ErrNotRequester):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		case errors.Is(err, matching.ErrRequestNotCancellable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request can no longer be cancelled"})
		default:
			log.Error("Failed to cancel matching request", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel matching request"})
		}
	}

	prometheus.RecordRequestStatus(model.RequestStatusCancelled)
	return c.JSON(http.StatusOK, echo.Map{"message": "Request cancelled"})
}
