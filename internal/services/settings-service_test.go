package services

import (
	"encoding/json"
	"testing"

	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	s := newTestSettings(nil)

	assert.Equal(t, "!", s.String("prefix", "?"))
	assert.Equal(t, 0xFFD700, s.Color("primary"))
	assert.Equal(t, 0x00FF00, s.Color("success"))
	assert.Equal(t, "", s.ChannelID("review_channel_id"))
	assert.Nil(t, s.RoleIDs("owner_role_ids"))
}

func TestSettingsStoredValuesOverrideDefaults(t *testing.T) {
	s := newTestSettings(map[string]string{
		"prefix":         `"?"`,
		"colors.primary": `"0x123456"`,
	})

	assert.Equal(t, "?", s.String("prefix", "!"))
	assert.Equal(t, 0x123456, s.Color("primary"))
}

func TestSettingsReadsBareAndJSONValues(t *testing.T) {
	s := newTestSettings(map[string]string{
		"review_channel_id":  "111222333",      // bare legacy value
		"logs_channel_id":    `"444555666"`,    // JSON string
		"moderator_role_ids": `["777","888"]`,  // JSON array
		"dev_role_ids":       "999, 1010",      // comma fallback
	})

	assert.Equal(t, "111222333", s.ChannelID("review_channel_id"))
	assert.Equal(t, "444555666", s.ChannelID("logs_channel_id"))
	assert.Equal(t, []string{"777", "888"}, s.RoleIDs("moderator_role_ids"))
	assert.Equal(t, []string{"999", "1010"}, s.RoleIDs("dev_role_ids"))
}

func TestSettingsColorFallsBackOnGarbage(t *testing.T) {
	s := newTestSettings(map[string]string{
		"colors.error": `"not-a-color"`,
	})

	assert.Equal(t, defaultColor, s.Color("error"))
	assert.Equal(t, defaultColor, s.Color("unknown-name"))
}

func TestSettingsSetPersistsAndRefreshes(t *testing.T) {
	repo := newFakeSettingRepo(nil)
	s, err := NewSettingsService(repo)
	require.NoError(t, err)

	require.NoError(t, s.Set("review_channel_id", "123"))
	assert.Equal(t, "123", s.ChannelID("review_channel_id"))

	// Stored JSON-encoded so a reload round-trips identically.
	assert.Equal(t, `"123"`, repo.data["review_channel_id"])

	require.NoError(t, s.Set("moderator_role_ids", `["1","2"]`))
	assert.Equal(t, []string{"1", "2"}, s.RoleIDs("moderator_role_ids"))
}

func TestSettingsSetRejectsEmptyKey(t *testing.T) {
	s := newTestSettings(nil)
	assert.Error(t, s.Set("  ", "value"))
}

func TestSettingsAllReturnsCopy(t *testing.T) {
	s := newTestSettings(map[string]string{"review_channel_id": "123"})

	all := s.All()
	all["review_channel_id"] = "tampered"

	assert.Equal(t, "123", s.ChannelID("review_channel_id"))
}

func TestAuditRecordPublishesEvent(t *testing.T) {
	repo := &fakeAuditRepo{}
	producer := &fakeProducer{}
	audit := NewAuditService(repo, producer)

	audit.Record("actor-1", "contract", "c-1", "published", "Cargo escort")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "actor-1", entry.ActorID)
	require.NotNil(t, entry.Note)
	assert.Equal(t, "Cargo escort", *entry.Note)

	require.Len(t, producer.keys, 1)
	assert.Equal(t, "contract.published", producer.keys[0])

	var event dto.AuditEvent
	require.NoError(t, json.Unmarshal([]byte(producer.payloads[0]), &event))
	assert.Equal(t, "c-1", event.EntityID)
	assert.Equal(t, "published", event.Action)
}

func TestAuditRecordWithoutProducer(t *testing.T) {
	repo := &fakeAuditRepo{}
	audit := NewAuditService(repo, nil)

	audit.Record("actor-1", "application", "a-1", "submitted", "")

	require.Len(t, repo.entries, 1)
	assert.Nil(t, repo.entries[0].Note)
}
