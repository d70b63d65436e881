package domain

import (
	"strings"

	"github.com/google/uuid"
)

// fieldChecker collects violations without stopping at the first one.
type fieldChecker struct {
	violations []FieldViolation
}

func (c *fieldChecker) str(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.violations = append(c.violations, FieldViolation{
			Field:   field,
			Message: field + " cannot be empty string.",
		})
	}
}

func (c *fieldChecker) id(field string, value uuid.UUID) {
	if value == uuid.Nil {
		c.required(field)
	}
}

func (c *fieldChecker) positive(field string, value int) {
	if value <= 0 {
		c.required(field)
	}
}

func (c *fieldChecker) required(field string) {
	c.violations = append(c.violations, FieldViolation{
		Field:   field,
		Message: field + " is required.",
	})
}

func (c *fieldChecker) err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: c.violations}
}

func (r InviteUserRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("FirstName", r.FirstName)
	c.str("LastName", r.LastName)
	c.str("Recipient", r.Recipient)
	c.str("TemplateId", r.TemplateID)
	c.str("OrganisationName", r.OrganisationName)
	c.str("JoinTheTeamLink", r.JoinTheTeamLink)
	return c.err()
}

func (r RemovedUserRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("FirstName", r.FirstName)
	c.str("LastName", r.LastName)
	c.str("Recipient", r.Recipient)
	c.str("OrganisationName", r.OrganisationName)
	return c.err()
}

func (r NominationRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("RecipientEmail", r.RecipientEmail)
	c.str("FirstName", r.FirstName)
	c.str("LastName", r.LastName)
	c.str("OrganisationNumber", r.OrganisationNumber)
	c.str("OrganisationName", r.OrganisationName)
	c.str("NominatorFirstName", r.NominatorFirstName)
	c.str("NominatorLastName", r.NominatorLastName)
	c.str("AccountLoginUrl", r.AccountLoginURL)
	return c.err()
}

func (r DissociationRegulatorsRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("ComplianceSchemeName", r.ComplianceSchemeName)
	c.str("ComplianceSchemeNation", r.ComplianceSchemeNation)
	c.str("OrganisationName", r.OrganisationName)
	c.str("OrganisationNation", r.OrganisationNation)
	c.str("OrganisationNumber", r.OrganisationNumber)
	c.str("UserFirstName", r.UserFirstName)
	c.str("UserLastName", r.UserLastName)
	return c.err()
}

func (r DissociationProducerRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("Recipient", r.Recipient)
	c.str("FirstName", r.FirstName)
	c.str("LastName", r.LastName)
	c.str("OrganisationName", r.OrganisationName)
	c.str("ComplianceSchemeName", r.ComplianceSchemeName)
	return c.err()
}

func (r ResubmissionRequest) Validate() error {
	var c fieldChecker
	c.str("OrganisationNumber", r.OrganisationNumber)
	c.str("ProducerOrganisationName", r.ProducerOrganisationName)
	c.str("SubmissionPeriod", r.SubmissionPeriod)
	c.positive("NationId", r.NationID)
	if r.IsComplianceScheme {
		c.str("ComplianceSchemeName", r.ComplianceSchemeName)
		c.str("ComplianceSchemePersonName", r.ComplianceSchemePersonName)
	}
	return c.err()
}

func (r UserDetailsChangeRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("Recipient", r.Recipient)
	c.str("FirstName", r.FirstName)
	c.str("LastName", r.LastName)
	c.str("OrganisationName", r.OrganisationName)
	c.str("OrganisationNumber", r.OrganisationNumber)
	c.str("ContactEmail", r.ContactEmail)
	return c.err()
}

func (r ApprovedUserRequest) Validate() error {
	var c fieldChecker
	c.id("UserId", r.UserID)
	c.id("OrganisationId", r.OrganisationID)
	c.str("Recipient", r.Recipient)
	c.str("FirstName", r.FirstName)
	c.str("LastName", r.LastName)
	c.str("OrganisationName", r.OrganisationName)
	c.str("AccountLoginUrl", r.AccountLoginURL)
	return c.err()
}
