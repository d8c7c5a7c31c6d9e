package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchingRequest statuses
const (
	RequestStatusPending   = "pending"
	RequestStatusReviewed  = "reviewed"
	RequestStatusMatched   = "matched"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
)

// Selection is an immutable snapshot of one entrepreneur chosen at submission
// time. It is denormalized on purpose: the request must preserve what was
// selected even if the entrepreneur record changes later.
type Selection struct {
	EntrepreneurID string `json:"entrepreneur_id"`
	Name           string `json:"name"`
	BusinessName   string `json:"business_name"`
	Priority       int    `json:"priority"`
}

// SelectionList stores the selection snapshots as a jsonb column.
type SelectionList []Selection

func (s SelectionList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SelectionList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for SelectionList: %T", value)
	}
	return json.Unmarshal(data, s)
}

// MatchingRequest captures a coach's prioritized entrepreneur selections and
// rationale. Forward status transitions are admin-only; the requester may only
// cancel while the request is still pending.
type MatchingRequest struct {
	ID                    string        `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterName         string        `json:"requester_name" gorm:"type:varchar(100);not null"`
	RequesterEmail        string        `json:"requester_email" gorm:"type:varchar(255);not null;index"`
	RequesterOrganization string        `json:"requester_organization,omitempty" gorm:"type:varchar(150)"`
	RequesterRole         string        `json:"requester_role" gorm:"type:varchar(20);default:'coach'"`
	Message               string        `json:"message,omitempty" gorm:"type:text"`
	SupportDescription    string        `json:"support_description,omitempty" gorm:"type:text"`
	Selections            SelectionList `json:"entrepreneur_selections" gorm:"type:jsonb"`
	Status                string        `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

func (r *MatchingRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// IsTerminal reports whether the request has reached a requester-facing
// terminal status. Admin overrides may still move it afterwards.
func (r *MatchingRequest) IsTerminal() bool {
	switch r.Status {
	case RequestStatusMatched, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// ValidRequestStatus reports whether s is a known matching request status.
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusPending, RequestStatusReviewed, RequestStatusMatched,
		RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}
