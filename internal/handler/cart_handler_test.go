package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Interface-corporation/grow-movement-app/internal/cart"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every pooled connection its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Entrepreneur{},
		&model.Coach{},
		&model.Match{},
		&model.MatchingRequest{},
		&model.ActivityLog{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func doCartRequest(e *echo.Echo, method, target, sessionID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerCartRoutes(e *echo.Echo, h *CartHandler) {
	e.POST("/cart/session", h.NewSession)
	e.GET("/cart", h.Get)
	e.POST("/cart/items", h.AddItem)
	e.DELETE("/cart/items/:id", h.RemoveItem)
	e.POST("/cart/items/:id/move-up", h.MoveUp)
	e.POST("/cart/items/:id/move-down", h.MoveDown)
	e.DELETE("/cart", h.Clear)
}

type cartResponse struct {
	Items  []cart.Item `json:"items"`
	IsFull bool        `json:"is_full"`
}

func TestCartRoutesRequireSessionHeader(t *testing.T) {
	newTestDB(t)
	e := newTestEcho()
	registerCartRoutes(e, &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)})

	rec := doCartRequest(e, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartNewSession(t *testing.T) {
	newTestDB(t)
	e := newTestEcho()
	registerCartRoutes(e, &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)})

	rec := doCartRequest(e, http.MethodPost, "/cart/session", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["session_id"])
}

func TestCartAddItem(t *testing.T) {
	db := newTestDB(t)
	e := newTestEcho()
	h := &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)}
	registerCartRoutes(e, h)

	ent := &model.Entrepreneur{Name: "Amara Okafor", BusinessName: "Okafor Textiles", Status: model.EntrepreneurStatusAdmitted}
	require.NoError(t, db.Create(ent).Error)

	sessionID := h.Carts.NewSession()
	rec := doCartRequest(e, http.MethodPost, "/cart/items", sessionID,
		`{"entrepreneur_id":"`+ent.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, ent.ID, body.Items[0].EntrepreneurID)
	assert.Equal(t, 1, body.Items[0].Priority)
	assert.False(t, body.IsFull)

	// Adding the same entrepreneur twice is rejected.
	rec = doCartRequest(e, http.MethodPost, "/cart/items", sessionID,
		`{"entrepreneur_id":"`+ent.ID+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartAddItemUnknownEntrepreneur(t *testing.T) {
	newTestDB(t)
	e := newTestEcho()
	h := &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)}
	registerCartRoutes(e, h)

	sessionID := h.Carts.NewSession()
	rec := doCartRequest(e, http.MethodPost, "/cart/items", sessionID, `{"entrepreneur_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAddItemCapacity(t *testing.T) {
	db := newTestDB(t)
	e := newTestEcho()
	h := &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)}
	registerCartRoutes(e, h)

	sessionID := h.Carts.NewSession()
	var last *model.Entrepreneur
	for i := 0; i < cart.DefaultMaxItems; i++ {
		ent := &model.Entrepreneur{Name: "Founder", BusinessName: "Business", Status: model.EntrepreneurStatusAdmitted}
		require.NoError(t, db.Create(ent).Error)
		rec := doCartRequest(e, http.MethodPost, "/cart/items", sessionID,
			`{"entrepreneur_id":"`+ent.ID+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		last = ent
	}

	// The cart is now full.
	overflow := &model.Entrepreneur{Name: "One Too Many", BusinessName: "Overflow Ltd", Status: model.EntrepreneurStatusAdmitted}
	require.NoError(t, db.Create(overflow).Error)
	rec := doCartRequest(e, http.MethodPost, "/cart/items", sessionID,
		`{"entrepreneur_id":"`+overflow.ID+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Removing frees a slot and reindexes.
	rec = doCartRequest(e, http.MethodDelete, "/cart/items/"+last.ID, sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, cart.DefaultMaxItems-1)
	for i, item := range body.Items {
		assert.Equal(t, i+1, item.Priority)
	}
	assert.False(t, body.IsFull)
}

func TestCartReorderRoutes(t *testing.T) {
	db := newTestDB(t)
	e := newTestEcho()
	h := &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)}
	registerCartRoutes(e, h)

	sessionID := h.Carts.NewSession()
	ids := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		ent := &model.Entrepreneur{Name: "Founder", BusinessName: "Business", Status: model.EntrepreneurStatusAdmitted}
		require.NoError(t, db.Create(ent).Error)
		doCartRequest(e, http.MethodPost, "/cart/items", sessionID, `{"entrepreneur_id":"`+ent.ID+`"}`)
		ids = append(ids, ent.ID)
	}

	rec := doCartRequest(e, http.MethodPost, "/cart/items/"+ids[1]+"/move-up", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ids[1], body.Items[0].EntrepreneurID)
	assert.Equal(t, ids[0], body.Items[1].EntrepreneurID)

	rec = doCartRequest(e, http.MethodPost, "/cart/items/"+ids[1]+"/move-down", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ids[0], body.Items[0].EntrepreneurID)
}

func TestCartClear(t *testing.T) {
	db := newTestDB(t)
	e := newTestEcho()
	h := &CartHandler{Carts: cart.NewManager(cart.DefaultMaxItems, time.Hour)}
	registerCartRoutes(e, h)

	sessionID := h.Carts.NewSession()
	ent := &model.Entrepreneur{Name: "Founder", BusinessName: "Business", Status: model.EntrepreneurStatusAdmitted}
	require.NoError(t, db.Create(ent).Error)
	doCartRequest(e, http.MethodPost, "/cart/items", sessionID, `{"entrepreneur_id":"`+ent.ID+`"}`)

	rec := doCartRequest(e, http.MethodDelete, "/cart", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, h.Carts.Get(sessionID).Len())
}
