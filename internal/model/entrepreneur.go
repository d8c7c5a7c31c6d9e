package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entrepreneur statuses
const (
	EntrepreneurStatusPending  = "Pending"
	EntrepreneurStatusAdmitted = "Admitted"
	EntrepreneurStatusMatched  = "Matched"
	EntrepreneurStatusAlumni   = "Alumni"
	EntrepreneurStatusRejected = "Rejected"
)

// Entrepreneur represents a program participant's business profile.
// Status moves Pending -> Admitted/Rejected by admin review, and
// Admitted -> Matched -> Alumni (or back to Admitted) via the matching engine.
type Entrepreneur struct {
	ID                  string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name                string    `json:"name" gorm:"type:varchar(100);not null"`
	BusinessName        string    `json:"business_name" gorm:"type:varchar(150);not null"`
	Country             string    `json:"country" gorm:"type:varchar(100)"`
	Sector              string    `json:"sector" gorm:"type:varchar(100)"`
	Stage               string    `json:"stage" gorm:"type:varchar(50)"`
	Gender              string    `json:"gender" gorm:"type:varchar(20)"`
	Email               string    `json:"email,omitempty" gorm:"type:varchar(255);index"`
	Phone               string    `json:"phone,omitempty" gorm:"type:varchar(50)"`
	PitchSummary        string    `json:"pitch_summary,omitempty" gorm:"type:text"`
	BusinessDescription string    `json:"business_description,omitempty" gorm:"type:text"`
	AboutEntrepreneur   string    `json:"about_entrepreneur,omitempty" gorm:"type:text"`
	CoachingNeeds       string    `json:"coaching_needs,omitempty" gorm:"type:text"`
	PhotoURL            string    `json:"photo_url,omitempty" gorm:"type:varchar(500)"`
	Website             string    `json:"website,omitempty" gorm:"type:varchar(255)"`
	ProgramID           *string   `json:"program_id,omitempty" gorm:"type:uuid;index"`
	Status              string    `json:"status" gorm:"type:varchar(20);index;default:'Pending'"`
	CreatedBy           *string   `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (e *Entrepreneur) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
