package matching

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Interface-corporation/grow-movement-app/internal/model"
)

// SignupEligibility is the account-signup roster check. It is deliberately a
// different check from the coach verification gate in SubmitRequest: signup
// accepts any known coach or entrepreneur email, while request submission
// requires a coach in Accepted or Unmatched status.
type SignupEligibility struct {
	Eligible bool   `json:"eligible"`
	Type     string `json:"type,omitempty"` // "coach" or "entrepreneur"
	Name     string `json:"name,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// CheckSignupEligibility looks the email up in the coach roster first, then
// the entrepreneur roster. The comparison is case-insensitive.
func (e *Engine) CheckSignupEligibility(email string) (*SignupEligibility, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return &SignupEligibility{Eligible: false, Reason: "email is required"}, nil
	}

	var coach model.Coach
	err := e.db.Where("LOWER(email) = ?", normalized).First(&coach).Error
	if err == nil {
		return &SignupEligibility{Eligible: true, Type: "coach", Name: coach.Name}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var entrepreneur model.Entrepreneur
	err = e.db.Where("LOWER(email) = ?", normalized).First(&entrepreneur).Error
	if err == nil {
		return &SignupEligibility{Eligible: true, Type: "entrepreneur", Name: entrepreneur.Name}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &SignupEligibility{
		Eligible: false,
		Reason:   "this email is not on the coach or entrepreneur roster",
	}, nil
}

// CoachIDByEmail resolves a coach record id for a signup email so the new
// account can be linked to it. Returns nil when no coach row exists.
func (e *Engine) CoachIDByEmail(email string) (*string, error) {
	var coach model.Coach
	err := e.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&coach).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coach.ID, nil
}
