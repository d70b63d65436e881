package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/downstream/accounts"
	membershipdomain "github.com/smallbiznis/accountfacade/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/accountfacade/internal/notification/domain"
	notificationservice "github.com/smallbiznis/accountfacade/internal/notification/service"
	"github.com/smallbiznis/accountfacade/internal/observability"
	"github.com/smallbiznis/accountfacade/internal/providers/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMembershipService struct {
	members   []membershipdomain.TeamMember
	err       error
	lastOrgID uuid.UUID
	lastUser  string
}

func (f *fakeMembershipService) ListTeamMembers(ctx context.Context, organisationID uuid.UUID) ([]membershipdomain.TeamMember, error) {
	f.lastOrgID = organisationID
	return f.members, f.err
}

func (f *fakeMembershipService) RemoveTeamMember(ctx context.Context, organisationID, userID uuid.UUID) (membershipdomain.RemovalResponse, error) {
	f.lastOrgID = organisationID
	f.lastUser = userID.String()
	if f.err != nil {
		return membershipdomain.RemovalResponse{}, f.err
	}
	return membershipdomain.RemovalResponse{UserID: userID, OrganisationID: organisationID, NotificationSent: true}, nil
}

func newTestServer(t *testing.T, membership membershipdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := config.DefaultCatalogConfig()
	notifications := notificationservice.NewService(notificationservice.ServiceParam{
		Log:        zap.NewNop(),
		Provider:   &email.NoOpProvider{},
		Regulators: notificationdomain.NewRegulators(catalog.Regulators),
		Templates:  notificationdomain.NewTemplates(catalog.Templates),
	})

	srv := NewServer(ServerParams{
		Gin:             NewEngine(observability.Config{}, nil),
		Cfg:             config.Config{Environment: "test"},
		Log:             zap.NewNop(),
		NotificationSvc: notifications,
		MembershipSvc:   membership,
	})
	return srv.Engine()
}

func doRequest(r http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})

	resp := doRequest(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestAPIRequiresCallerIdentity(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})
	path := "/api/organisations/" + uuid.NewString() + "/team-members"

	resp := doRequest(r, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "unauthorized", decodeError(t, resp).Type)

	resp = doRequest(r, http.MethodGet, path, "not-a-guid", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListTeamMembers(t *testing.T) {
	orgID := uuid.New()
	membership := &fakeMembershipService{members: []membershipdomain.TeamMember{
		{UserID: uuid.New(), FirstName: "Ann", RoleKey: "Basic.Admin", EnrolmentStatus: "Enrolled"},
	}}
	r := newTestServer(t, membership)

	resp := doRequest(r, http.MethodGet, "/api/organisations/"+orgID.String()+"/team-members", uuid.NewString(), "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, orgID, membership.lastOrgID)

	var body struct {
		Data []membershipdomain.TeamMember `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Basic.Admin", body.Data[0].RoleKey)
}

func TestTeamMemberErrorsAreMapped(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{name: "not found", err: accounts.ErrNotFound, status: http.StatusNotFound, typ: "not_found"},
		{name: "upstream", err: accounts.ErrUpstream, status: http.StatusBadGateway, typ: "upstream_error"},
		{name: "self removal", err: membershipdomain.ErrSelfRemoval, status: http.StatusForbidden, typ: "forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestServer(t, &fakeMembershipService{err: tc.err})
			path := "/api/organisations/" + uuid.NewString() + "/team-members/" + uuid.NewString()

			resp := doRequest(r, http.MethodDelete, path, uuid.NewString(), "")
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.typ, decodeError(t, resp).Type)
		})
	}
}

func TestInvalidOrganisationIDIsValidationError(t *testing.T) {
	membership := &fakeMembershipService{}
	r := newTestServer(t, membership)

	resp := doRequest(r, http.MethodGet, "/api/organisations/abc/team-members", uuid.NewString(), "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	payload := decodeError(t, resp)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "organisationId", payload.Errors[0].Field)
	assert.Equal(t, uuid.Nil, membership.lastOrgID)
}

func TestSendInviteValidationListsEveryField(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})
	body := `{"user_id":"` + uuid.NewString() + `","organisation_id":"` + uuid.NewString() + `","last_name":"Smith"}`

	resp := doRequest(r, http.MethodPost, "/api/notifications/invite", uuid.NewString(), body)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	payload := decodeError(t, resp)
	assert.Equal(t, "validation_error", payload.Type)
	assert.Equal(t,
		"FirstName cannot be empty string. Recipient cannot be empty string. TemplateId cannot be empty string. "+
			"OrganisationName cannot be empty string. JoinTheTeamLink cannot be empty string.",
		payload.Message,
	)
	assert.Len(t, payload.Errors, 5)
}

func TestSendInviteEmptyIDsAreListedWithOtherFields(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})
	body := `{
		"user_id":"","organisation_id":"",
		"first_name":"Alice","last_name":"Smith",
		"recipient":"alice@example.com","template_id":"tmpl-1",
		"organisation_name":"Acme","join_the_team_link":""
	}`

	resp := doRequest(r, http.MethodPost, "/api/notifications/invite", uuid.NewString(), body)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	payload := decodeError(t, resp)
	assert.Equal(t, "validation_error", payload.Type)
	assert.Equal(t, "UserId is required. OrganisationId is required. JoinTheTeamLink cannot be empty string.", payload.Message)
	require.Len(t, payload.Errors, 3)
	assert.Equal(t, "UserId", payload.Errors[0].Field)
}

func TestSendInviteDelivered(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})
	body := `{
		"user_id":"` + uuid.NewString() + `",
		"organisation_id":"` + uuid.NewString() + `",
		"first_name":"Alice","last_name":"Smith",
		"recipient":"alice@example.com","template_id":"tmpl-1",
		"organisation_name":"Acme","join_the_team_link":"https://example.com/join"
	}`

	resp := doRequest(r, http.MethodPost, "/api/notifications/invite", uuid.NewString(), body)
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Data dispatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.True(t, out.Data.Delivered)
	assert.Equal(t, "tmpl-1", out.Data.TemplateID)
	assert.NotEmpty(t, out.Data.NotificationID)
}

func TestSendDissociationToRegulators(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})
	body := func(orgNation string) string {
		return `{
			"user_id":"` + uuid.NewString() + `",
			"organisation_id":"` + uuid.NewString() + `",
			"compliance_scheme_name":"Green","compliance_scheme_nation":"Wales",
			"organisation_name":"Acme","organisation_nation":"` + orgNation + `",
			"organisation_number":"123","user_first_name":"A","user_last_name":"B"
		}`
	}

	resp := doRequest(r, http.MethodPost, "/api/notifications/dissociation/regulators", uuid.NewString(), body("Scotland"))
	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Data []dispatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "wales.regulator@example.gov.uk", out.Data[0].Recipient)
	assert.Equal(t, "scotland.regulator@example.gov.uk", out.Data[1].Recipient)

	resp = doRequest(r, http.MethodPost, "/api/notifications/dissociation/regulators", uuid.NewString(), body("Atlantis"))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "lookup_error", decodeError(t, resp).Type)
}

func TestMalformedBodyIsInvalidRequest(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})

	resp := doRequest(r, http.MethodPost, "/api/notifications/resubmission", uuid.NewString(), `{"nation_id":`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	payload := decodeError(t, resp)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_request", payload.Errors[0].Code)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	r := newTestServer(t, &fakeMembershipService{})

	resp := doRequest(r, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "not_found", decodeError(t, resp).Type)
}
