package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPerms() PermissionService {
	settings := newTestSettings(map[string]string{
		"owner_role_ids":     `["owner-1"]`,
		"dep_owner_role_ids": `["dep-1"]`,
		"dev_role_ids":       `["dev-1","dev-2"]`,
		"moderator_role_ids": `["rec-1"]`,
		"contract_role_id":   "contract-1",
	})
	return NewPermissionService(settings)
}

func TestTierOfPicksHighestMatch(t *testing.T) {
	perms := newTestPerms()

	assert.Equal(t, TierOwner, perms.TierOf([]string{"owner-1"}))
	assert.Equal(t, TierDepOwner, perms.TierOf([]string{"dep-1"}))
	assert.Equal(t, TierDeveloper, perms.TierOf([]string{"dev-2"}))
	assert.Equal(t, TierContract, perms.TierOf([]string{"contract-1"}))
	assert.Equal(t, TierContract, perms.TierOf([]string{"rec-1"}))
	assert.Equal(t, TierMember, perms.TierOf([]string{"random"}))
	assert.Equal(t, TierMember, perms.TierOf(nil))

	// A member holding several configured roles gets the highest one.
	assert.Equal(t, TierOwner, perms.TierOf([]string{"rec-1", "dev-1", "owner-1"}))
}

func TestTierNameDistinguishesContractFromModerator(t *testing.T) {
	perms := newTestPerms()

	assert.Equal(t, "Contract", perms.TierName([]string{"contract-1"}))
	assert.Equal(t, "REC", perms.TierName([]string{"rec-1"}))
	assert.Equal(t, "Member", perms.TierName(nil))
}

func TestHasCapability(t *testing.T) {
	perms := newTestPerms()

	// Review: moderators yes, contract role no.
	assert.True(t, perms.HasCapability([]string{"rec-1"}, CapReviewApplications))
	assert.False(t, perms.HasCapability([]string{"contract-1"}, CapReviewApplications))

	// Contracts: contract role yes, moderators no.
	assert.True(t, perms.HasCapability([]string{"contract-1"}, CapManageContracts))
	assert.False(t, perms.HasCapability([]string{"rec-1"}, CapManageContracts))

	// Config: only owner and developer sets.
	assert.True(t, perms.HasCapability([]string{"owner-1"}, CapUseConfig))
	assert.True(t, perms.HasCapability([]string{"dev-1"}, CapUseConfig))
	assert.False(t, perms.HasCapability([]string{"dep-1"}, CapUseConfig))

	assert.False(t, perms.HasCapability(nil, CapAllCommands))
}

func TestUnsetRoleSetMatchesNobody(t *testing.T) {
	settings := newTestSettings(map[string]string{
		"owner_role_ids": `["owner-1"]`,
	})
	perms := NewPermissionService(settings)

	// No moderator set configured: review falls back to the higher sets only.
	assert.False(t, perms.HasCapability([]string{"rec-1"}, CapReviewApplications))
	assert.True(t, perms.HasCapability([]string{"owner-1"}, CapReviewApplications))

	// No contract role configured either.
	assert.False(t, perms.HasCapability([]string{"contract-1"}, CapManageContracts))
}
