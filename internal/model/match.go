package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match statuses. "completed" and "cancelled" are terminal.
const (
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
	MatchStatusCancelled = "cancelled"
)

// Match is the authoritative record of a coach/entrepreneur pairing.
// While a match is active the referenced entrepreneur and coach both carry
// status "Matched"; the matching engine maintains that in one transaction.
type Match struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	EntrepreneurID string    `json:"entrepreneur_id" gorm:"type:uuid;not null;index"`
	CoachID        string    `json:"coach_id" gorm:"type:uuid;not null;index"`
	ProgramID      *string   `json:"program_id,omitempty" gorm:"type:uuid;index"`
	RequestID      *string   `json:"request_id,omitempty" gorm:"type:uuid;index"`
	Notes          string    `json:"notes,omitempty" gorm:"type:text"`
	Status         string    `json:"status" gorm:"type:varchar(20);index;default:'active'"`
	CreatedBy      *string   `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// IsTerminal reports whether the match has reached a terminal status.
func (m *Match) IsTerminal() bool {
	return m.Status == MatchStatusCompleted || m.Status == MatchStatusCancelled
}
