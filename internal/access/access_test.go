package access

import (
	"errors"
	"testing"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAdminIsSupersetOfUser(t *testing.T) {
	admin := AllowedModules(model.RoleAdmin)
	for m := range AllowedModules(model.RoleUser) {
		assert.True(t, admin[m], "admin should have %s", m)
	}
	assert.Len(t, admin, 15)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(model.RoleUser, Sales))
	assert.NoError(t, Authorize(model.RoleAdmin, Accounting))

	err := Authorize(model.RoleUser, Accounting)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

	err = Authorize("guest", Dashboard)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
}

func TestAllowedModulesReturnsCopy(t *testing.T) {
	mods := AllowedModules(model.RoleUser)
	mods[Accounting] = true
	assert.Error(t, Authorize(model.RoleUser, Accounting))
}

func TestModuleList(t *testing.T) {
	assert.Equal(t, []string{"customers", "dashboard", "inventory", "purchases", "sales", "suppliers", "tasks"}, ModuleList(model.RoleUser))
	assert.Empty(t, ModuleList("guest"))
	assert.True(t, ValidRole(model.RoleAdmin))
	assert.False(t, ValidRole("root"))
}
