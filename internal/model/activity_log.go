package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Details is a free-form jsonb payload attached to an activity entry.
type Details map[string]interface{}

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *Details) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Details: %T", value)
	}
	return json.Unmarshal(data, d)
}

// ActivityLog is an append-only record of state-changing actions.
type ActivityLog struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	Action     string    `json:"action" gorm:"type:varchar(150);not null;index"`
	EntityType string    `json:"entity_type,omitempty" gorm:"type:varchar(50);index"`
	EntityID   string    `json:"entity_id,omitempty" gorm:"type:uuid"`
	Details    Details   `json:"details,omitempty" gorm:"type:jsonb"`
	UserID     *string   `json:"user_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
