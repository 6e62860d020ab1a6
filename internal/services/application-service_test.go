package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appFixture struct {
	svc       ApplicationService
	repo      *fakeApplicationRepo
	messenger *fakeMessenger
	directory *fakeDirectory
	audit     *fakeAuditRepo
}

func newAppFixture(extraSettings map[string]string) *appFixture {
	seed := map[string]string{
		"review_channel_id":  "review-chan",
		"moderator_role_ids": `["rec-1"]`,
		"owner_role_ids":     `["owner-1"]`,
		"member_role_id":     "member-role",
	}
	for k, v := range extraSettings {
		seed[k] = v
	}
	settings := newTestSettings(seed)

	repo := newFakeApplicationRepo()
	messenger := newFakeMessenger()
	directory := newFakeDirectory(map[string][]string{
		"mod":      {"rec-1"},
		"owner":    {"owner-1"},
		"civilian": {"unrelated"},
	})
	audit := &fakeAuditRepo{}

	svc := NewApplicationService(
		repo,
		settings,
		NewPermissionService(settings),
		messenger,
		directory,
		NewAuditService(audit, nil),
	)
	return &appFixture{svc: svc, repo: repo, messenger: messenger, directory: directory, audit: audit}
}

func validForm() dto.ApplicationForm {
	return dto.ApplicationForm{
		CharacterName: "John Price",
		CharacterAge:  "25",
		Experience:    "two years on other servers",
		Motivation:    "friends recommended the family",
		About:         "calm, active in the evenings",
	}
}

func (f *appFixture) submit(t *testing.T) *domain.Application {
	t.Helper()
	app, err := f.svc.Submit("applicant", "Applicant#1", validForm())
	require.NoError(t, err)
	return app
}

func TestSubmitValidation(t *testing.T) {
	f := newAppFixture(nil)

	form := validForm()
	form.CharacterName = "   "
	_, err := f.svc.Submit("applicant", "Applicant#1", form)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "character name", verr.Field)
	assert.Empty(t, f.repo.apps)
}

func TestSubmitTrimsAndBounds(t *testing.T) {
	f := newAppFixture(nil)

	form := validForm()
	form.CharacterAge = "1234"
	_, err := f.svc.Submit("applicant", "Applicant#1", form)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "character age", verr.Field)
}

func TestSubmitWithoutReviewChannelWritesNothing(t *testing.T) {
	f := newAppFixture(map[string]string{"review_channel_id": ""})

	_, err := f.svc.Submit("applicant", "Applicant#1", validForm())

	var cerr *domain.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "review_channel_id", cerr.Setting)
	assert.Empty(t, f.repo.apps)
	assert.Empty(t, f.messenger.posts)
}

func TestSubmitPostsReviewCard(t *testing.T) {
	f := newAppFixture(nil)

	app := f.submit(t)

	require.Len(t, f.messenger.posts, 1)
	post := f.messenger.posts[0]
	assert.Equal(t, "review-chan", post.ChannelID)
	assert.Contains(t, post.Content, "<@&rec-1>")
	assert.Equal(t, dto.ControlsReview, post.Controls)
	assert.Equal(t, app.PublicID, post.Ref)

	stored, err := f.repo.FindByPublicID(app.PublicID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusSubmitted, stored.Status)
	assert.Equal(t, "review-chan", stored.CardChannelID)
	assert.NotEmpty(t, stored.CardMessageID)

	assert.Equal(t, []string{"submitted"}, f.audit.actions())
}

func TestMarkUnderReviewRequiresReviewer(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	err := f.svc.MarkUnderReview("civilian", app.PublicID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	stored, _ := f.repo.FindByPublicID(app.PublicID)
	assert.Equal(t, domain.ApplicationStatusSubmitted, stored.Status)
}

func TestMarkUnderReviewIsRepeatable(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	require.NoError(t, f.svc.MarkUnderReview("mod", app.PublicID))
	require.NoError(t, f.svc.MarkUnderReview("owner", app.PublicID))

	// The marker is replaced, not stacked.
	stored, _ := f.repo.FindByPublicID(app.PublicID)
	assert.Equal(t, domain.ApplicationStatusUnderReview, stored.Status)
	require.NotNil(t, stored.ReviewerID)
	assert.Equal(t, "owner", *stored.ReviewerID)
}

func TestApproveGrantsRoleAndNotifies(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	warning, err := f.svc.Approve("mod", app.PublicID)
	require.NoError(t, err)
	assert.Empty(t, warning)

	stored, _ := f.repo.FindByPublicID(app.PublicID)
	assert.Equal(t, domain.ApplicationStatusApproved, stored.Status)

	assert.Equal(t, []string{"member-role"}, f.directory.added["applicant"])
	require.Len(t, f.messenger.dms["applicant"], 1)

	// Buttons are stripped from the review card.
	assert.Equal(t, dto.ControlsNone, f.messenger.lastEdit().Controls)
	assert.Equal(t, []string{"submitted", "approved"}, f.audit.actions())
}

func TestApproveFromSubmittedSkipsUnderReview(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	_, err := f.svc.Approve("mod", app.PublicID)
	assert.NoError(t, err)
}

func TestApproveRoleGrantFailureReturnsWarning(t *testing.T) {
	f := newAppFixture(nil)
	f.directory.addRoleErr = errors.New("missing permission")
	app := f.submit(t)

	warning, err := f.svc.Approve("mod", app.PublicID)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)

	// The approval stands and the applicant still hears about it.
	stored, _ := f.repo.FindByPublicID(app.PublicID)
	assert.Equal(t, domain.ApplicationStatusApproved, stored.Status)
	assert.Len(t, f.messenger.dms["applicant"], 1)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	err := f.svc.Reject("mod", app.PublicID, "   ")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Field)

	stored, _ := f.repo.FindByPublicID(app.PublicID)
	assert.Equal(t, domain.ApplicationStatusSubmitted, stored.Status)
}

func TestRejectSendsReasonToApplicant(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	require.NoError(t, f.svc.Reject("mod", app.PublicID, "too young"))

	require.Len(t, f.messenger.dms["applicant"], 1)
	dm := f.messenger.dms["applicant"][0]
	found := false
	for _, field := range dm.Fields {
		if field.Value == "too young" {
			found = true
		}
	}
	assert.True(t, found, "reject reason should appear in the DM")
}

func TestTerminalStatesRefuseFurtherTransitions(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	_, err := f.svc.Approve("mod", app.PublicID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.MarkUnderReview("mod", app.PublicID), domain.ErrStateConflict)
	assert.ErrorIs(t, f.svc.Reject("mod", app.PublicID, "nope"), domain.ErrStateConflict)

	_, err = f.svc.Approve("mod", app.PublicID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestConcurrentApproveAndRejectAdmitOneWinner(t *testing.T) {
	f := newAppFixture(nil)
	app := f.submit(t)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.svc.Approve("mod", app.PublicID)
		results <- err
	}()
	go func() {
		defer wg.Done()
		results <- f.svc.Reject("owner", app.PublicID, "changed our mind")
	}()
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrStateConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	// Whoever won, the application landed in exactly one terminal state.
	stored, err := f.repo.FindByPublicID(app.PublicID)
	require.NoError(t, err)
	assert.Contains(t, []domain.ApplicationStatus{
		domain.ApplicationStatusApproved,
		domain.ApplicationStatusRejected,
	}, stored.Status)
}

func TestMarkUnderReviewUnknownApplication(t *testing.T) {
	f := newAppFixture(nil)

	err := f.svc.MarkUnderReview("mod", "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
