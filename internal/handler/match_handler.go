package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Interface-corporation/grow-movement-app/internal/matching"
	"github.com/Interface-corporation/grow-movement-app/internal/middleware"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

// MatchHandler exposes the match lifecycle to staff.
type MatchHandler struct {
	Engine *matching.Engine
}

// Create pairs an admitted entrepreneur with an available coach. Statuses on
// both records and on the linked request cascade in one transaction.
func (h *MatchHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordMatchOperation("create")

	var req struct {
		EntrepreneurID string  `json:"entrepreneur_id" validate:"required"`
		CoachID        string  `json:"coach_id" validate:"required"`
		Notes          string  `json:"notes"`
		ProgramID      *string `json:"program_id"`
		RequestID      *string `json:"request_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse match creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var createdBy *string
	if claims := middleware.CurrentClaims(c); claims != nil {
		createdBy = &claims.UserID
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	match, err := h.Engine.CreateMatch(matching.CreateMatchInput{
		EntrepreneurID: req.EntrepreneurID,
		CoachID:        req.CoachID,
		Notes:          req.Notes,
		ProgramID:      req.ProgramID,
		RequestID:      req.RequestID,
		CreatedBy:      createdBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrEntrepreneurNotFound),
			errors.Is(err, matching.ErrCoachNotFound),
			errors.Is(err, matching.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, matching.ErrEntrepreneurNotAdmitted),
			errors.Is(err, matching.ErrCoachNotAvailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			log.Error("Failed to create match", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create match"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Match created successfully",
		"match":   match,
	})
}

// List returns matches newest-first with an optional status filter.
func (h *MatchHandler) List(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	matches, err := h.Engine.ListMatches(c.QueryParam("status"))
	if err != nil {
		logger.FromEcho(c).Error("Failed to list matches", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve matches"})
	}
	return c.JSON(http.StatusOK, matches)
}

// Get returns one match.
func (h *MatchHandler) Get(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	match, err := h.Engine.GetMatch(c.Param("id"))
	if err != nil {
		if errors.Is(err, matching.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		logger.FromEcho(c).Error("Failed to load match", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve match"})
	}
	return c.JSON(http.StatusOK, match)
}

// Complete ends coaching: the entrepreneur graduates to Alumni and the coach
// is freed for new assignments.
func (h *MatchHandler) Complete(c echo.Context) error {
	prometheus.RecordMatchOperation("complete")
	return h.applyTransition(c, h.Engine.CompleteMatch, "Coaching ended; entrepreneur is now Alumni")
}

// Unmatch calls the relationship off: the entrepreneur returns to the
// matchable pool and the coach is freed.
func (h *MatchHandler) Unmatch(c echo.Context) error {
	prometheus.RecordMatchOperation("unmatch")
	return h.applyTransition(c, h.Engine.Unmatch, "Match cancelled; both parties are available again")
}

func (h *MatchHandler) applyTransition(c echo.Context, transition func(string, *string) error, message string) error {
	log := logger.FromEcho(c)

	var actorID *string
	if claims := middleware.CurrentClaims(c); claims != nil {
		actorID = &claims.UserID
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	if err := transition(c.Param("id"), actorID); err != nil {
		switch {
		case errors.Is(err, matching.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, matching.ErrMatchNotActive):
			return c.JSON(http.StatusConflict, echo.Map{"error": "match is not active"})
		default:
			log.Error("Match transition failed", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update match"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

// Delete removes a terminal match record. Active matches must be completed or
// unmatched first.
func (h *MatchHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordMatchOperation("delete")

	var actorID *string
	if claims := middleware.CurrentClaims(c); claims != nil {
		actorID = &claims.UserID
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.Engine.DeleteMatch(c.Param("id"), actorID); err != nil {
		switch {
		case errors.Is(err, matching.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, matching.ErrMatchStillActive):
			return c.JSON(http.StatusConflict, echo.Map{"error": "active match must be ended or unmatched before deletion"})
		default:
			log.Error("Failed to delete match", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete match"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Match record deleted"})
}
