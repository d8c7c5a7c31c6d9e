package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coach statuses
const (
	CoachStatusPending   = "Pending"
	CoachStatusAccepted  = "Accepted"
	CoachStatusMatched   = "Matched"
	CoachStatusUnmatched = "Unmatched"
	CoachStatusRejected  = "Rejected"
)

// Coach represents a mentor/investor profile. Only coaches in Accepted or
// Unmatched status pass the verification gate for matching requests.
type Coach struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(100);not null"`
	Email          string    `json:"email,omitempty" gorm:"type:varchar(255);index"`
	Organization   string    `json:"organization,omitempty" gorm:"type:varchar(150)"`
	Specialization string    `json:"specialization,omitempty" gorm:"type:varchar(150)"`
	Bio            string    `json:"bio,omitempty" gorm:"type:text"`
	Country        string    `json:"country,omitempty" gorm:"type:varchar(100)"`
	Experience     string    `json:"experience,omitempty" gorm:"type:text"`
	Availability   string    `json:"availability,omitempty" gorm:"type:varchar(100)"`
	PhotoURL       string    `json:"photo_url,omitempty" gorm:"type:varchar(500)"`
	Status         string    `json:"status" gorm:"type:varchar(20);index;default:'Pending'"`
	CreatedBy      *string   `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Coach) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// CoachVerifiedStatuses are the coach statuses accepted by the matching request gate.
func CoachVerifiedStatuses() []string {
	return []string{CoachStatusAccepted, CoachStatusUnmatched}
}
