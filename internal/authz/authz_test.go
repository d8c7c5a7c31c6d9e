package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Interface-corporation/grow-movement-app/internal/model"
)

func TestAdminCapabilities(t *testing.T) {
	for _, action := range []Action{
		ActionReviewApplications,
		ActionCreateMatch,
		ActionCompleteMatch,
		ActionUnmatch,
		ActionDeleteMatch,
		ActionSetRequestStatus,
		ActionReadActivityLog,
		ActionListCoaches,
	} {
		assert.True(t, Can(model.RoleAdmin, action), "admin should be allowed %s", action)
	}
}

func TestProgramAdminCannotReadActivityLog(t *testing.T) {
	assert.True(t, Can(model.RoleProgramAdmin, ActionCreateMatch))
	assert.True(t, Can(model.RoleProgramAdmin, ActionSetRequestStatus))
	assert.False(t, Can(model.RoleProgramAdmin, ActionReadActivityLog))
}

func TestCoachCapabilities(t *testing.T) {
	assert.True(t, Can(model.RoleCoach, ActionCancelOwnRequest))
	assert.False(t, Can(model.RoleCoach, ActionCreateMatch))
	assert.False(t, Can(model.RoleCoach, ActionReviewApplications))
	assert.False(t, Can(model.RoleCoach, ActionReadActivityLog))
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	assert.False(t, Can("", ActionCreateMatch))
	assert.False(t, Can("visitor", ActionCancelOwnRequest))
}
