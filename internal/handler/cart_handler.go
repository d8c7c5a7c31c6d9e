package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Interface-corporation/grow-movement-app/internal/cart"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/database"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

// SessionHeader carries the opaque cart session id on every cart request.
const SessionHeader = "X-Cart-Session"

// CartHandler exposes the selection cart over HTTP. Carts live in memory for
// the lifetime of the browsing session; nothing is persisted until a matching
// request is submitted.
type CartHandler struct {
	Carts *cart.Manager
}

// NewSession allocates a cart session id for the client to echo back.
func (h *CartHandler) NewSession(c echo.Context) error {
	id := h.Carts.NewSession()
	prometheus.ActiveCartsGauge.Set(float64(h.Carts.Count()))
	return c.JSON(http.StatusCreated, echo.Map{"session_id": id})
}

// Get returns the cart contents sorted by priority.
func (h *CartHandler) Get(c echo.Context) error {
	sessionCart, ok := h.session(c)
	if !ok {
		return nil
	}
	items := sessionCart.Items()
	return c.JSON(http.StatusOK, echo.Map{
		"items":   items,
		"is_full": sessionCart.IsFull(),
	})
}

// AddItem puts an entrepreneur in the cart with the next priority. A full
// cart or a duplicate add is rejected without mutation.
func (h *CartHandler) AddItem(c echo.Context) error {
	log := logger.FromEcho(c)

	sessionCart, ok := h.session(c)
	if !ok {
		return nil
	}

	var req struct {
		EntrepreneurID string `json:"entrepreneur_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var entrepreneur model.Entrepreneur
	if result := database.GetDB().First(&entrepreneur, "id = ?", req.EntrepreneurID); result.Error != nil {
		log.Warn("Entrepreneur not found for cart add", zap.String("entrepreneur_id", req.EntrepreneurID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "entrepreneur not found"})
	}

	added := sessionCart.Add(cart.Item{
		EntrepreneurID: entrepreneur.ID,
		Name:           entrepreneur.Name,
		BusinessName:   entrepreneur.BusinessName,
	})
	if !added {
		return c.JSON(http.StatusConflict, echo.Map{"error": "selection is full or entrepreneur already selected"})
	}

	prometheus.RecordCartOperation("add")
	return c.JSON(http.StatusOK, echo.Map{"items": sessionCart.Items(), "is_full": sessionCart.IsFull()})
}

// RemoveItem drops an entrepreneur and re-indexes the remaining priorities.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	sessionCart, ok := h.session(c)
	if !ok {
		return nil
	}
	sessionCart.Remove(c.Param("id"))
	prometheus.RecordCartOperation("remove")
	return c.JSON(http.StatusOK, echo.Map{"items": sessionCart.Items(), "is_full": sessionCart.IsFull()})
}

// MoveUp raises an item's priority by one position.
func (h *CartHandler) MoveUp(c echo.Context) error {
	sessionCart, ok := h.session(c)
	if !ok {
		return nil
	}
	sessionCart.MoveUp(c.Param("id"))
	prometheus.RecordCartOperation("move_up")
	return c.JSON(http.StatusOK, echo.Map{"items": sessionCart.Items()})
}

// MoveDown lowers an item's priority by one position.
func (h *CartHandler) MoveDown(c echo.Context) error {
	sessionCart, ok := h.session(c)
	if !ok {
		return nil
	}
	sessionCart.MoveDown(c.Param("id"))
	prometheus.RecordCartOperation("move_down")
	return c.JSON(http.StatusOK, echo.Map{"items": sessionCart.Items()})
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	sessionCart, ok := h.session(c)
	if !ok {
		return nil
	}
	sessionCart.Clear()
	prometheus.RecordCartOperation("clear")
	return c.JSON(http.StatusOK, echo.Map{"items": []cart.Item{}})
}

// session resolves the caller's cart. When the session header is missing the
// 400 response has already been written and ok is false.
func (h *CartHandler) session(c echo.Context) (*cart.Cart, bool) {
	sessionID := c.Request().Header.Get(SessionHeader)
	if sessionID == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": SessionHeader + " header is required"})
		return nil, false
	}
	return h.Carts.Get(sessionID), true
}
