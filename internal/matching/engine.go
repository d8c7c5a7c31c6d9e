package matching

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Interface-corporation/grow-movement-app/internal/activity"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
)

// Requester email must look like an address before the coach gate runs.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Engine owns the matching request and match lifecycles. Every lifecycle
// transition that cascades status changes across entrepreneur, coach and
// request rows runs inside a single database transaction, so a partial
// cascade cannot be observed or persisted.
type Engine struct {
	db       *gorm.DB
	recorder *activity.Recorder
	log      *zap.Logger
}

// NewEngine creates a matching engine on top of the given database handle.
func NewEngine(db *gorm.DB, recorder *activity.Recorder, log *zap.Logger) *Engine {
	return &Engine{db: db, recorder: recorder, log: log}
}

// RequestSubmission carries a coach's matching request form plus the cart
// snapshot, ordered by ascending priority.
type RequestSubmission struct {
	Name               string
	Email              string
	Organization       string
	Role               string
	Message            string
	SupportDescription string
	Selections         []model.Selection
}

func (s *RequestSubmission) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	email := strings.TrimSpace(s.Email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Reason: "email is not a valid address"}
	}
	if strings.TrimSpace(s.Organization) == "" {
		return &ValidationError{Field: "organization", Reason: "organization is required"}
	}
	if strings.TrimSpace(s.Message) == "" {
		return &ValidationError{Field: "message", Reason: "selection reason is required"}
	}
	if strings.TrimSpace(s.SupportDescription) == "" {
		return &ValidationError{Field: "support_description", Reason: "support description is required"}
	}
	if len(s.Selections) < 1 || len(s.Selections) > 3 {
		return &ValidationError{Field: "entrepreneur_selections", Reason: "between 1 and 3 entrepreneurs must be selected"}
	}
	// Priorities must be a permutation of 1..len.
	seen := make(map[int]bool, len(s.Selections))
	for _, sel := range s.Selections {
		if sel.Priority < 1 || sel.Priority > len(s.Selections) || seen[sel.Priority] {
			return &ValidationError{Field: "entrepreneur_selections", Reason: "priorities must be a dense 1..n ranking"}
		}
		seen[sel.Priority] = true
	}
	switch s.Role {
	case "":
		s.Role = "coach"
	case "coach", "investor":
	default:
		return &ValidationError{Field: "role", Reason: "role must be coach or investor"}
	}
	return nil
}

// VerifyCoach reports whether the email belongs to a coach in Accepted or
// Unmatched status. The comparison is case-insensitive.
func (e *Engine) VerifyCoach(email string) (bool, error) {
	var count int64
	err := e.db.Model(&model.Coach{}).
		Where("LOWER(email) = ? AND status IN ?", strings.ToLower(strings.TrimSpace(email)), model.CoachVerifiedStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SubmitRequest validates the submission, runs the coach verification gate
// and persists the request with status pending. The caller must clear the
// selection cart only after this returns successfully.
func (e *Engine) SubmitRequest(sub RequestSubmission) (*model.MatchingRequest, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}

	verified, err := e.VerifyCoach(sub.Email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrCoachNotVerified
	}

	selections := make(model.SelectionList, len(sub.Selections))
	copy(selections, sub.Selections)

	request := model.MatchingRequest{
		RequesterName:         strings.TrimSpace(sub.Name),
		RequesterEmail:        strings.ToLower(strings.TrimSpace(sub.Email)),
		RequesterOrganization: strings.TrimSpace(sub.Organization),
		RequesterRole:         sub.Role,
		Message:               sub.Message,
		SupportDescription:    sub.SupportDescription,
		Selections:            selections,
		Status:                model.RequestStatusPending,
	}

	if err := e.db.Create(&request).Error; err != nil {
		return nil, err
	}

	e.recorder.Record("Submitted matching request", "matching_request", request.ID,
		model.Details{"requester_email": request.RequesterEmail, "selections": len(selections)}, nil)

	e.log.Info("Matching request submitted",
		zap.String("request_id", request.ID),
		zap.String("requester_email", request.RequesterEmail),
		zap.Int("selections", len(selections)))

	return &request, nil
}

// SetRequestStatus is the admin-discretion transition: any known status may be
// assigned at any time, terminal states included.
func (e *Engine) SetRequestStatus(requestID, status string, actorID *string) error {
	if !model.ValidRequestStatus(status) {
		return &ValidationError{Field: "status", Reason: "unknown matching request status"}
	}

	var request model.MatchingRequest
	if err := e.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	if err := e.db.Model(&request).Update("status", status).Error; err != nil {
		return err
	}

	e.recorder.Record("Matching request "+status, "matching_request", request.ID,
		model.Details{"status": status}, actorID)
	return nil
}

// CancelRequest is the requester-initiated transition. It is restricted to the
// request's own email and only allowed while the request is still pending.
func (e *Engine) CancelRequest(requestID, requesterEmail string, actorID *string) error {
	var request model.MatchingRequest
	if err := e.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	if !strings.EqualFold(request.RequesterEmail, strings.TrimSpace(requesterEmail)) {
		return ErrNotRequester
	}
	if request.Status != model.RequestStatusPending {
		return ErrRequestNotCancellable
	}

	if err := e.db.Model(&request).Update("status", model.RequestStatusCancelled).Error; err != nil {
		return err
	}

	e.recorder.Record("Matching request cancelled", "matching_request", request.ID, nil, actorID)
	return nil
}

// CreateMatchInput carries the fields for a new coach/entrepreneur pairing.
type CreateMatchInput struct {
	EntrepreneurID string
	CoachID        string
	Notes          string
	ProgramID      *string
	RequestID      *string
	CreatedBy      *string
}

// CreateMatch inserts an active match and cascades: entrepreneur -> Matched,
// coach -> Matched, linked request -> matched. The entrepreneur must be
// Admitted and the coach Accepted or Unmatched. All writes happen in one
// transaction.
func (e *Engine) CreateMatch(in CreateMatchInput) (*model.Match, error) {
	var match model.Match

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var entrepreneur model.Entrepreneur
		if err := tx.First(&entrepreneur, "id = ?", in.EntrepreneurID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntrepreneurNotFound
			}
			return err
		}
		if entrepreneur.Status != model.EntrepreneurStatusAdmitted {
			return ErrEntrepreneurNotAdmitted
		}

		var coach model.Coach
		if err := tx.First(&coach, "id = ?", in.CoachID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCoachNotFound
			}
			return err
		}
		if coach.Status != model.CoachStatusAccepted && coach.Status != model.CoachStatusUnmatched {
			return ErrCoachNotAvailable
		}

		if in.RequestID != nil {
			var request model.MatchingRequest
			if err := tx.First(&request, "id = ?", *in.RequestID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRequestNotFound
				}
				return err
			}
		}

		match = model.Match{
			EntrepreneurID: in.EntrepreneurID,
			CoachID:        in.CoachID,
			ProgramID:      in.ProgramID,
			RequestID:      in.RequestID,
			Notes:          in.Notes,
			Status:         model.MatchStatusActive,
			CreatedBy:      in.CreatedBy,
		}
		if err := tx.Create(&match).Error; err != nil {
			return err
		}

		if err := tx.Model(&entrepreneur).Update("status", model.EntrepreneurStatusMatched).Error; err != nil {
			return err
		}
		if err := tx.Model(&coach).Update("status", model.CoachStatusMatched).Error; err != nil {
			return err
		}
		if in.RequestID != nil {
			if err := tx.Model(&model.MatchingRequest{}).Where("id = ?", *in.RequestID).
				Update("status", model.RequestStatusMatched).Error; err != nil {
				return err
			}
		}

		e.recorder.RecordTx(tx, "Created match", "match", match.ID,
			model.Details{"entrepreneur": entrepreneur.Name, "coach": coach.Name}, in.CreatedBy)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("Match created",
		zap.String("match_id", match.ID),
		zap.String("entrepreneur_id", match.EntrepreneurID),
		zap.String("coach_id", match.CoachID))

	return &match, nil
}

// CompleteMatch ends coaching on an active match: match -> completed,
// entrepreneur -> Alumni (graduates out of the matchable pool), coach ->
// Unmatched, linked request stays/becomes matched.
func (e *Engine) CompleteMatch(matchID string, actorID *string) error {
	return e.transition(matchID, actorID, "Completed match", model.MatchStatusCompleted,
		model.EntrepreneurStatusAlumni, model.CoachStatusUnmatched, model.RequestStatusMatched)
}

// Unmatch calls off an active match: match -> cancelled, entrepreneur reverts
// to Admitted (re-enters the pool), coach -> Unmatched, linked request ->
// cancelled.
func (e *Engine) Unmatch(matchID string, actorID *string) error {
	return e.transition(matchID, actorID, "Unmatched", model.MatchStatusCancelled,
		model.EntrepreneurStatusAdmitted, model.CoachStatusUnmatched, model.RequestStatusCancelled)
}

// transition applies one terminal match transition and its cascade in a single
// transaction.
func (e *Engine) transition(matchID string, actorID *string, action, matchStatus, entStatus, coachStatus, requestStatus string) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var match model.Match
		if err := tx.First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.Status != model.MatchStatusActive {
			return ErrMatchNotActive
		}

		if err := tx.Model(&match).Update("status", matchStatus).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Entrepreneur{}).Where("id = ?", match.EntrepreneurID).
			Update("status", entStatus).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Coach{}).Where("id = ?", match.CoachID).
			Update("status", coachStatus).Error; err != nil {
			return err
		}
		if match.RequestID != nil {
			if err := tx.Model(&model.MatchingRequest{}).Where("id = ?", *match.RequestID).
				Update("status", requestStatus).Error; err != nil {
				return err
			}
		}

		e.recorder.RecordTx(tx, action, "match", match.ID, nil, actorID)
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info("Match transition applied",
		zap.String("match_id", matchID),
		zap.String("status", matchStatus))
	return nil
}

// DeleteMatch hard-deletes a match record. It never cascades status changes,
// so it is only allowed once the match is completed or cancelled; deleting an
// active match would strand both parties in Matched status.
func (e *Engine) DeleteMatch(matchID string, actorID *string) error {
	var match model.Match
	if err := e.db.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if !match.IsTerminal() {
		return ErrMatchStillActive
	}

	if err := e.db.Delete(&match).Error; err != nil {
		return err
	}

	e.recorder.Record("Deleted match", "match", match.ID, nil, actorID)
	return nil
}

// GetMatch loads a match by id.
func (e *Engine) GetMatch(matchID string) (*model.Match, error) {
	var match model.Match
	if err := e.db.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

// ListMatches returns matches newest-first, optionally filtered by status.
func (e *Engine) ListMatches(status string) ([]model.Match, error) {
	var matches []model.Match
	query := e.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// ListRequests returns matching requests newest-first, optionally filtered by
// status.
func (e *Engine) ListRequests(status string) ([]model.MatchingRequest, error) {
	var requests []model.MatchingRequest
	query := e.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListRequestsByEmail returns the requester's own requests newest-first.
func (e *Engine) ListRequestsByEmail(email string) ([]model.MatchingRequest, error) {
	var requests []model.MatchingRequest
	err := e.db.Where("LOWER(requester_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
