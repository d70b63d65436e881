package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/downstream/accounts"
	"github.com/smallbiznis/accountfacade/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/accountfacade/internal/notification/domain"
	obscontext "github.com/smallbiznis/accountfacade/internal/observability/context"
	roleservice "github.com/smallbiznis/accountfacade/internal/role/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	members   []accounts.TeamMember
	listErr   error
	removed   accounts.RemovedMember
	removeErr error

	removeCalls int
}

func (f *fakeAccounts) ListTeamMembers(ctx context.Context, organisationID uuid.UUID) ([]accounts.TeamMember, error) {
	return f.members, f.listErr
}

func (f *fakeAccounts) RemoveTeamMember(ctx context.Context, organisationID, userID uuid.UUID) (accounts.RemovedMember, error) {
	f.removeCalls++
	return f.removed, f.removeErr
}

// fakeNotifications only implements SendRemovedUser; the rest are unused here.
type fakeNotifications struct {
	notificationdomain.Service

	requests []notificationdomain.RemovedUserRequest
	result   notificationdomain.DispatchResult
	err      error
}

func (f *fakeNotifications) SendRemovedUser(ctx context.Context, req notificationdomain.RemovedUserRequest) (notificationdomain.DispatchResult, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func newTestService(t *testing.T, acc *fakeAccounts, notif *fakeNotifications) domain.Service {
	t.Helper()
	catalog, err := roleservice.NewCatalogFromConfig(config.DefaultCatalogConfig())
	require.NoError(t, err)

	return NewService(ServiceParam{
		Log:           zap.NewNop(),
		Accounts:      acc,
		Roles:         catalog,
		Notifications: notif,
	})
}

func TestListTeamMembers_ResolvesAndFiltersRoles(t *testing.T) {
	admin, employee, stranger := uuid.New(), uuid.New(), uuid.New()
	acc := &fakeAccounts{members: []accounts.TeamMember{
		{
			UserID: admin, FirstName: "Ann", PersonRoleID: 1,
			Enrolments: []accounts.MemberEnrolment{
				{ServiceRoleID: 3, EnrolmentStatus: "Enrolled"},
				{ServiceRoleID: 2, EnrolmentStatus: "approved"},
			},
		},
		{
			UserID: employee, FirstName: "Eve", PersonRoleID: 2,
			Enrolments: []accounts.MemberEnrolment{{ServiceRoleID: 3, EnrolmentStatus: "Invited"}},
		},
		{
			UserID: stranger, FirstName: "Sam", PersonRoleID: 9,
			Enrolments: []accounts.MemberEnrolment{{ServiceRoleID: 3, EnrolmentStatus: "Enrolled"}},
		},
	}}
	svc := newTestService(t, acc, &fakeNotifications{})

	members, err := svc.ListTeamMembers(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Equal(t, admin, members[0].UserID)
	assert.Equal(t, "Delegated.Admin", members[0].RoleKey)
	assert.Equal(t, "Approved", members[0].EnrolmentStatus)
	assert.Equal(t, "DelegatedPerson", members[0].DescriptionKey)

	assert.Equal(t, employee, members[1].UserID)
	assert.Equal(t, "Basic.Employee", members[1].RoleKey)
	assert.Equal(t, "Invited", members[1].EnrolmentStatus)
}

func TestListTeamMembers_UnknownStatusFallsBackToNotSet(t *testing.T) {
	acc := &fakeAccounts{members: []accounts.TeamMember{{
		UserID: uuid.New(), PersonRoleID: 1,
		Enrolments: []accounts.MemberEnrolment{{ServiceRoleID: 1, EnrolmentStatus: "Mystery"}},
	}}}
	svc := newTestService(t, acc, &fakeNotifications{})

	members, err := svc.ListTeamMembers(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Approved.Admin", members[0].RoleKey)
	assert.Equal(t, "NotSet", members[0].EnrolmentStatus)
}

func TestListTeamMembers_PropagatesDownstreamError(t *testing.T) {
	acc := &fakeAccounts{listErr: accounts.ErrUpstream}
	svc := newTestService(t, acc, &fakeNotifications{})

	_, err := svc.ListTeamMembers(context.Background(), uuid.New())
	assert.ErrorIs(t, err, accounts.ErrUpstream)

	_, err = svc.ListTeamMembers(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOrganisation)
}

func TestRemoveTeamMember_SendsRemovedUserEmail(t *testing.T) {
	orgID, userID := uuid.New(), uuid.New()
	acc := &fakeAccounts{removed: accounts.RemovedMember{
		UserID: userID, FirstName: "Bob", LastName: "Jones",
		Email: "bob@example.com", OrganisationName: "Acme",
	}}
	notif := &fakeNotifications{result: notificationdomain.DispatchResult{NotificationID: "n-1"}}
	svc := newTestService(t, acc, notif)

	resp, err := svc.RemoveTeamMember(context.Background(), orgID, userID)
	require.NoError(t, err)
	assert.True(t, resp.NotificationSent)
	assert.Equal(t, userID, resp.UserID)

	require.Len(t, notif.requests, 1)
	assert.Equal(t, "bob@example.com", notif.requests[0].Recipient)
	assert.Equal(t, orgID, notif.requests[0].OrganisationID)
	assert.Equal(t, "Acme", notif.requests[0].OrganisationName)
}

func TestRemoveTeamMember_NotificationFailureDoesNotFailRemoval(t *testing.T) {
	acc := &fakeAccounts{removed: accounts.RemovedMember{FirstName: "Bob"}}
	notif := &fakeNotifications{err: &notificationdomain.ValidationError{
		Violations: []notificationdomain.FieldViolation{{Field: "Recipient", Message: "Recipient cannot be empty string."}},
	}}
	svc := newTestService(t, acc, notif)

	resp, err := svc.RemoveTeamMember(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, resp.NotificationSent)
	assert.Equal(t, 1, acc.removeCalls)
}

func TestRemoveTeamMember_DownstreamFailureSkipsEmail(t *testing.T) {
	acc := &fakeAccounts{removeErr: accounts.ErrNotFound}
	notif := &fakeNotifications{}
	svc := newTestService(t, acc, notif)

	_, err := svc.RemoveTeamMember(context.Background(), uuid.New(), uuid.New())
	assert.True(t, errors.Is(err, accounts.ErrNotFound))
	assert.Empty(t, notif.requests)
}

func TestRemoveTeamMember_RejectsSelfRemoval(t *testing.T) {
	acc := &fakeAccounts{}
	svc := newTestService(t, acc, &fakeNotifications{})
	userID := uuid.New()

	ctx := obscontext.WithUserID(context.Background(), userID.String())
	_, err := svc.RemoveTeamMember(ctx, uuid.New(), userID)
	assert.ErrorIs(t, err, domain.ErrSelfRemoval)
	assert.Zero(t, acc.removeCalls)
}
