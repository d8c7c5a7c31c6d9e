package authz

import "github.com/Interface-corporation/grow-movement-app/internal/model"

// Action names every role-gated operation in the service. Each state
// transition consults the capability table at its single call site instead of
// scattering role conditionals.
type Action string

const (
	ActionReviewApplications Action = "review_applications"
	ActionCreateMatch        Action = "create_match"
	ActionCompleteMatch      Action = "complete_match"
	ActionUnmatch            Action = "unmatch"
	ActionDeleteMatch        Action = "delete_match"
	ActionSetRequestStatus   Action = "set_request_status"
	ActionCancelOwnRequest   Action = "cancel_own_request"
	ActionReadActivityLog    Action = "read_activity_log"
	ActionListCoaches        Action = "list_coaches"
)

var capabilities = map[string]map[Action]bool{
	model.RoleAdmin: {
		ActionReviewApplications: true,
		ActionCreateMatch:        true,
		ActionCompleteMatch:      true,
		ActionUnmatch:            true,
		ActionDeleteMatch:        true,
		ActionSetRequestStatus:   true,
		ActionReadActivityLog:    true,
		ActionListCoaches:        true,
	},
	model.RoleProgramAdmin: {
		ActionReviewApplications: true,
		ActionCreateMatch:        true,
		ActionCompleteMatch:      true,
		ActionUnmatch:            true,
		ActionDeleteMatch:        true,
		ActionSetRequestStatus:   true,
		ActionListCoaches:        true,
	},
	model.RoleCoach: {
		ActionCancelOwnRequest: true,
	},
}

// Can reports whether the role may perform the action. Unknown roles (public
// visitors included) have no capabilities.
func Can(role string, action Action) bool {
	return capabilities[role][action]
}
