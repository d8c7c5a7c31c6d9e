package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Interface-corporation/grow-movement-app/internal/activity"
	"github.com/Interface-corporation/grow-movement-app/internal/cart"
	"github.com/Interface-corporation/grow-movement-app/internal/matching"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
)

func newSubmissionFixture(t *testing.T) (*MatchingRequestHandler, *CartHandler, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	engine := matching.NewEngine(db, activity.NewRecorder(db, log), log)
	carts := cart.NewManager(cart.DefaultMaxItems, time.Hour)
	return &MatchingRequestHandler{Engine: engine, Carts: carts}, &CartHandler{Carts: carts}, db
}

const submissionBody = `{
	"name": "Jordan Lee",
	"email": "coach@x.org",
	"organization": "Lee Advisory",
	"message": "Strong sector fit",
	"support_description": "Weekly calls"
}`

func TestSubmitClearsCartOnSuccess(t *testing.T) {
	h, cartHandler, db := newSubmissionFixture(t)
	e := newTestEcho()
	registerCartRoutes(e, cartHandler)
	e.POST("/matching-requests", h.Submit)

	require.NoError(t, db.Create(&model.Coach{Name: "Jordan Lee", Email: "coach@x.org", Status: model.CoachStatusAccepted}).Error)
	ent := &model.Entrepreneur{Name: "Amara Okafor", BusinessName: "Okafor Textiles", Status: model.EntrepreneurStatusAdmitted}
	require.NoError(t, db.Create(ent).Error)

	sessionID := h.Carts.NewSession()
	rec := doCartRequest(e, http.MethodPost, "/cart/items", sessionID, `{"entrepreneur_id":"`+ent.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doCartRequest(e, http.MethodPost, "/matching-requests", sessionID, submissionBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored model.MatchingRequest
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, model.RequestStatusPending, stored.Status)
	require.Len(t, stored.Selections, 1)
	assert.Equal(t, ent.ID, stored.Selections[0].EntrepreneurID)

	assert.Equal(t, 0, h.Carts.Get(sessionID).Len(), "cart empties after a successful submission")
}

func TestSubmitKeepsCartWhenCoachNotVerified(t *testing.T) {
	h, cartHandler, db := newSubmissionFixture(t)
	e := newTestEcho()
	registerCartRoutes(e, cartHandler)
	e.POST("/matching-requests", h.Submit)

	// Roster has the email but not in a verified status.
	require.NoError(t, db.Create(&model.Coach{Name: "Jordan Lee", Email: "coach@x.org", Status: model.CoachStatusPending}).Error)
	ent := &model.Entrepreneur{Name: "Amara Okafor", BusinessName: "Okafor Textiles", Status: model.EntrepreneurStatusAdmitted}
	require.NoError(t, db.Create(ent).Error)

	sessionID := h.Carts.NewSession()
	doCartRequest(e, http.MethodPost, "/cart/items", sessionID, `{"entrepreneur_id":"`+ent.ID+`"}`)

	rec := doCartRequest(e, http.MethodPost, "/matching-requests", sessionID, submissionBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var count int64
	db.Model(&model.MatchingRequest{}).Count(&count)
	assert.EqualValues(t, 0, count)

	assert.Equal(t, 1, h.Carts.Get(sessionID).Len(), "cart survives a failed submission for retry")
}

func TestSubmitEmptyCartIsRejected(t *testing.T) {
	h, cartHandler, db := newSubmissionFixture(t)
	e := newTestEcho()
	registerCartRoutes(e, cartHandler)
	e.POST("/matching-requests", h.Submit)

	require.NoError(t, db.Create(&model.Coach{Name: "Jordan Lee", Email: "coach@x.org", Status: model.CoachStatusAccepted}).Error)

	sessionID := h.Carts.NewSession()
	rec := doCartRequest(e, http.MethodPost, "/matching-requests", sessionID, submissionBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRequiresSessionHeader(t *testing.T) {
	h, cartHandler, _ := newSubmissionFixture(t)
	e := newTestEcho()
	registerCartRoutes(e, cartHandler)
	e.POST("/matching-requests", h.Submit)

	rec := doCartRequest(e, http.MethodPost, "/matching-requests", "", submissionBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
