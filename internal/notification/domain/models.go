// Package domain defines notification requests, results and lookup tables.
package domain

import "github.com/google/uuid"

// Scenario names one business event that triggers an email.
type Scenario string

const (
	ScenarioInvite                Scenario = "invite"
	ScenarioRemovedUser           Scenario = "removed_user"
	ScenarioNomination            Scenario = "nomination"
	ScenarioDissociationRegulator Scenario = "dissociation_regulator"
	ScenarioDissociationProducer  Scenario = "dissociation_producer"
	ScenarioResubmission          Scenario = "resubmission"
	ScenarioUserDetailsChange     Scenario = "user_details_change"
	ScenarioApprovedUser          Scenario = "approved_user_confirmation"
)

// InviteUserRequest carries its own template id; the caller picks it from the
// invited role's catalog entry.
type InviteUserRequest struct {
	UserID           uuid.UUID `json:"user_id"`
	OrganisationID   uuid.UUID `json:"organisation_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Recipient        string    `json:"recipient"`
	TemplateID       string    `json:"template_id"`
	OrganisationName string    `json:"organisation_name"`
	JoinTheTeamLink  string    `json:"join_the_team_link"`
}

type RemovedUserRequest struct {
	UserID           uuid.UUID `json:"user_id"`
	OrganisationID   uuid.UUID `json:"organisation_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Recipient        string    `json:"recipient"`
	OrganisationName string    `json:"organisation_name"`
}

// NominationRequest notifies a user nominated as delegated person.
type NominationRequest struct {
	UserID             uuid.UUID `json:"user_id"`
	OrganisationID     uuid.UUID `json:"organisation_id"`
	RecipientEmail     string    `json:"recipient_email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	OrganisationNumber string    `json:"organisation_number"`
	OrganisationName   string    `json:"organisation_name"`
	NominatorFirstName string    `json:"nominator_first_name"`
	NominatorLastName  string    `json:"nominator_last_name"`
	AccountLoginURL    string    `json:"account_login_url"`
}

// DissociationRegulatorsRequest tells the regulators of both nations that a
// producer left a compliance scheme.
type DissociationRegulatorsRequest struct {
	UserID                 uuid.UUID `json:"user_id"`
	OrganisationID         uuid.UUID `json:"organisation_id"`
	ComplianceSchemeName   string    `json:"compliance_scheme_name"`
	ComplianceSchemeNation string    `json:"compliance_scheme_nation"`
	OrganisationName       string    `json:"organisation_name"`
	OrganisationNation     string    `json:"organisation_nation"`
	OrganisationNumber     string    `json:"organisation_number"`
	UserFirstName          string    `json:"user_first_name"`
	UserLastName           string    `json:"user_last_name"`
}

// DissociationProducerRequest tells the producer's user about the dissociation.
type DissociationProducerRequest struct {
	UserID               uuid.UUID `json:"user_id"`
	OrganisationID       uuid.UUID `json:"organisation_id"`
	Recipient            string    `json:"recipient"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	OrganisationName     string    `json:"organisation_name"`
	ComplianceSchemeName string    `json:"compliance_scheme_name"`
}

type ResubmissionRequest struct {
	OrganisationNumber         string `json:"organisation_number"`
	ProducerOrganisationName   string `json:"producer_organisation_name"`
	SubmissionPeriod           string `json:"submission_period"`
	NationID                   int    `json:"nation_id"`
	IsComplianceScheme         bool   `json:"is_compliance_scheme"`
	ComplianceSchemeName       string `json:"compliance_scheme_name"`
	ComplianceSchemePersonName string `json:"compliance_scheme_person_name"`
}

type UserDetailsChangeRequest struct {
	UserID             uuid.UUID `json:"user_id"`
	OrganisationID     uuid.UUID `json:"organisation_id"`
	Recipient          string    `json:"recipient"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	JobTitle           string    `json:"job_title"`
	NewFirstName       string    `json:"new_first_name"`
	NewLastName        string    `json:"new_last_name"`
	NewJobTitle        string    `json:"new_job_title"`
	OrganisationName   string    `json:"organisation_name"`
	OrganisationNumber string    `json:"organisation_number"`
	ContactEmail       string    `json:"contact_email"`
	ContactTelephone   string    `json:"contact_telephone"`
}

// ApprovedUserRequest confirms account creation to a newly approved person.
type ApprovedUserRequest struct {
	UserID           uuid.UUID `json:"user_id"`
	OrganisationID   uuid.UUID `json:"organisation_id"`
	Recipient        string    `json:"recipient"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	OrganisationName string    `json:"organisation_name"`
	AccountLoginURL  string    `json:"account_login_url"`
}

// DispatchResult is the outcome of one send. An empty NotificationID means the
// email was not delivered; Err says why.
type DispatchResult struct {
	Recipient      string `json:"recipient"`
	TemplateID     string `json:"template_id"`
	NotificationID string `json:"notification_id,omitempty"`
	Err            error  `json:"-"`
}

func (r DispatchResult) Delivered() bool {
	return r.Err == nil && r.NotificationID != ""
}
