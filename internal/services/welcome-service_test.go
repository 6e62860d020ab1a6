package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnMemberJoinGrantsRoleAndPostsCard(t *testing.T) {
	settings := newTestSettings(map[string]string{
		"auto_role_id":           "friends-role",
		"welcome_channel_id":     "welcome-chan",
		"application_channel_id": "apply-chan",
	})
	messenger := newFakeMessenger()
	directory := newFakeDirectory(nil)
	audit := &fakeAuditRepo{}

	svc := NewWelcomeService(settings, messenger, directory, NewAuditService(audit, nil))
	svc.OnMemberJoin("newbie", "Newbie#1", "https://cdn.example/avatar.png")

	assert.Equal(t, []string{"friends-role"}, directory.added["newbie"])

	require.Len(t, messenger.posts, 1)
	post := messenger.posts[0]
	assert.Equal(t, "welcome-chan", post.ChannelID)
	assert.Contains(t, post.Card.Description, "<@newbie>")
	assert.Contains(t, post.Card.Description, "<#apply-chan>")

	assert.Equal(t, []string{"joined"}, audit.actions())
}

func TestOnMemberJoinWithoutWelcomeChannel(t *testing.T) {
	settings := newTestSettings(nil)
	messenger := newFakeMessenger()
	svc := NewWelcomeService(settings, messenger, newFakeDirectory(nil), NewAuditService(&fakeAuditRepo{}, nil))

	svc.OnMemberJoin("newbie", "Newbie#1", "")

	assert.Empty(t, messenger.posts)
}

func TestOnMemberJoinSurvivesRoleGrantFailure(t *testing.T) {
	settings := newTestSettings(map[string]string{
		"auto_role_id":       "friends-role",
		"welcome_channel_id": "welcome-chan",
	})
	messenger := newFakeMessenger()
	directory := newFakeDirectory(nil)
	directory.addRoleErr = errors.New("missing permission")

	svc := NewWelcomeService(settings, messenger, directory, NewAuditService(&fakeAuditRepo{}, nil))
	svc.OnMemberJoin("newbie", "Newbie#1", "")

	// The welcome card still goes out.
	assert.Len(t, messenger.posts, 1)
}
