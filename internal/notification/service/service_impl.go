package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/accountfacade/internal/notification/domain"
	obslogger "github.com/smallbiznis/accountfacade/internal/observability/logger"
	"github.com/smallbiznis/accountfacade/internal/observability/metrics"
	"github.com/smallbiznis/accountfacade/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Provider   email.Provider
	Regulators *domain.Regulators
	Templates  domain.Templates
	Metrics    *metrics.Metrics `optional:"true"`
}

type service struct {
	log        *zap.Logger
	provider   email.Provider
	regulators *domain.Regulators
	templates  domain.Templates
	metrics    *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:        p.Log.Named("notification.service"),
		provider:   p.Provider,
		regulators: p.Regulators,
		templates:  p.Templates,
		metrics:    p.Metrics,
	}
}

// message is one resolved (recipient, template, merge fields) tuple.
type message struct {
	recipient  string
	templateID string
	fields     map[string]string
}

func (s *service) SendInvite(ctx context.Context, req domain.InviteUserRequest) (domain.DispatchResult, error) {
	if err := s.validate(ctx, domain.ScenarioInvite, req); err != nil {
		return domain.DispatchResult{}, err
	}
	return s.send(ctx, domain.ScenarioInvite, message{
		recipient:  req.Recipient,
		templateID: req.TemplateID,
		fields: map[string]string{
			"first_name":         req.FirstName,
			"last_name":          req.LastName,
			"organisation_name":  req.OrganisationName,
			"join_the_team_link": req.JoinTheTeamLink,
		},
	}), nil
}

func (s *service) SendRemovedUser(ctx context.Context, req domain.RemovedUserRequest) (domain.DispatchResult, error) {
	if err := s.validate(ctx, domain.ScenarioRemovedUser, req); err != nil {
		return domain.DispatchResult{}, err
	}
	return s.send(ctx, domain.ScenarioRemovedUser, message{
		recipient:  req.Recipient,
		templateID: s.templates.RemovedUser,
		fields: map[string]string{
			"first_name":        req.FirstName,
			"last_name":         req.LastName,
			"organisation_name": req.OrganisationName,
		},
	}), nil
}

func (s *service) SendNomination(ctx context.Context, req domain.NominationRequest) (domain.DispatchResult, error) {
	if err := s.validate(ctx, domain.ScenarioNomination, req); err != nil {
		return domain.DispatchResult{}, err
	}
	return s.send(ctx, domain.ScenarioNomination, message{
		recipient:  req.RecipientEmail,
		templateID: s.templates.Nomination,
		fields: map[string]string{
			"first_name":           req.FirstName,
			"last_name":            req.LastName,
			"organisation_number":  req.OrganisationNumber,
			"organisation_name":    req.OrganisationName,
			"nominator_first_name": req.NominatorFirstName,
			"nominator_last_name":  req.NominatorLastName,
			"account_login_url":    req.AccountLoginURL,
		},
	}), nil
}

// SendDissociationToRegulators emails the compliance scheme's regulator and,
// when the producer is registered in another nation, that nation's regulator
// too. Both regulators are resolved before anything is sent.
func (s *service) SendDissociationToRegulators(ctx context.Context, req domain.DissociationRegulatorsRequest) ([]domain.DispatchResult, error) {
	scenario := domain.ScenarioDissociationRegulator
	if err := s.validate(ctx, scenario, req); err != nil {
		return nil, err
	}

	nations := []string{req.ComplianceSchemeNation}
	if !domain.SameNation(req.ComplianceSchemeNation, req.OrganisationNation) {
		nations = append(nations, req.OrganisationNation)
	}

	regulators := make([]domain.Regulator, 0, len(nations))
	for _, nation := range nations {
		reg, err := s.regulators.ByNation(nation)
		if err != nil {
			s.reject(ctx, scenario, err)
			return nil, err
		}
		regulators = append(regulators, reg)
	}

	results := make([]domain.DispatchResult, 0, len(regulators))
	for _, reg := range regulators {
		results = append(results, s.send(ctx, scenario, message{
			recipient:  reg.Email,
			templateID: s.templates.DissociationRegulator,
			fields: map[string]string{
				"regulator_name":           reg.Name,
				"nation":                   reg.Nation,
				"compliance_scheme_name":   req.ComplianceSchemeName,
				"compliance_scheme_nation": req.ComplianceSchemeNation,
				"organisation_name":        req.OrganisationName,
				"organisation_nation":      req.OrganisationNation,
				"organisation_number":      req.OrganisationNumber,
				"first_name":               req.UserFirstName,
				"last_name":                req.UserLastName,
			},
		}))
	}
	return results, nil
}

func (s *service) SendDissociationToProducer(ctx context.Context, req domain.DissociationProducerRequest) (domain.DispatchResult, error) {
	if err := s.validate(ctx, domain.ScenarioDissociationProducer, req); err != nil {
		return domain.DispatchResult{}, err
	}
	return s.send(ctx, domain.ScenarioDissociationProducer, message{
		recipient:  req.Recipient,
		templateID: s.templates.DissociationProducer,
		fields: map[string]string{
			"first_name":             req.FirstName,
			"last_name":              req.LastName,
			"organisation_name":      req.OrganisationName,
			"compliance_scheme_name": req.ComplianceSchemeName,
		},
	}), nil
}

func (s *service) SendResubmissionToRegulator(ctx context.Context, req domain.ResubmissionRequest) (domain.DispatchResult, error) {
	scenario := domain.ScenarioResubmission
	if err := s.validate(ctx, scenario, req); err != nil {
		return domain.DispatchResult{}, err
	}

	reg, err := s.regulators.ByNationID(req.NationID)
	if err != nil {
		s.reject(ctx, scenario, err)
		return domain.DispatchResult{}, err
	}

	fields := map[string]string{
		"regulator_name":             reg.Name,
		"organisation_number":        req.OrganisationNumber,
		"producer_organisation_name": req.ProducerOrganisationName,
		"submission_period":          req.SubmissionPeriod,
	}
	templateID := s.templates.ResubmissionProducer
	if req.IsComplianceScheme {
		templateID = s.templates.ResubmissionComplianceScheme
		fields["compliance_scheme_name"] = req.ComplianceSchemeName
		fields["compliance_scheme_person_name"] = req.ComplianceSchemePersonName
	}

	return s.send(ctx, scenario, message{
		recipient:  reg.Email,
		templateID: templateID,
		fields:     fields,
	}), nil
}

func (s *service) SendUserDetailsChange(ctx context.Context, req domain.UserDetailsChangeRequest) (domain.DispatchResult, error) {
	if err := s.validate(ctx, domain.ScenarioUserDetailsChange, req); err != nil {
		return domain.DispatchResult{}, err
	}
	return s.send(ctx, domain.ScenarioUserDetailsChange, message{
		recipient:  req.Recipient,
		templateID: s.templates.UserDetailsChange,
		fields: map[string]string{
			"first_name":          req.FirstName,
			"last_name":           req.LastName,
			"job_title":           req.JobTitle,
			"new_first_name":      orDefault(req.NewFirstName, req.FirstName),
			"new_last_name":       orDefault(req.NewLastName, req.LastName),
			"new_job_title":       orDefault(req.NewJobTitle, req.JobTitle),
			"organisation_name":   req.OrganisationName,
			"organisation_number": req.OrganisationNumber,
			"contact_email":       req.ContactEmail,
			"contact_telephone":   req.ContactTelephone,
		},
	}), nil
}

func (s *service) SendApprovedUserConfirmation(ctx context.Context, req domain.ApprovedUserRequest) (domain.DispatchResult, error) {
	if err := s.validate(ctx, domain.ScenarioApprovedUser, req); err != nil {
		return domain.DispatchResult{}, err
	}
	return s.send(ctx, domain.ScenarioApprovedUser, message{
		recipient:  req.Recipient,
		templateID: s.templates.ApprovedUserConfirmation,
		fields: map[string]string{
			"first_name":        req.FirstName,
			"last_name":         req.LastName,
			"organisation_name": req.OrganisationName,
			"account_login_url": req.AccountLoginURL,
		},
	}), nil
}

type validator interface {
	Validate() error
}

func (s *service) validate(ctx context.Context, scenario domain.Scenario, req validator) error {
	if err := req.Validate(); err != nil {
		s.reject(ctx, scenario, err)
		return err
	}
	return nil
}

func (s *service) reject(ctx context.Context, scenario domain.Scenario, err error) {
	s.metrics.RecordNotification(string(scenario), metrics.OutcomeRejected)
	obslogger.WithContext(ctx, s.log).Warn("notification rejected",
		zap.String("scenario", string(scenario)),
		zap.Error(err),
	)
}

// send never returns an error: a provider failure is recorded on the result.
func (s *service) send(ctx context.Context, scenario domain.Scenario, msg message) domain.DispatchResult {
	result := domain.DispatchResult{
		Recipient:  strings.TrimSpace(msg.recipient),
		TemplateID: msg.templateID,
	}
	log := obslogger.WithContext(ctx, s.log).With(
		zap.String("scenario", string(scenario)),
		zap.String("template_id", msg.templateID),
	)

	id, err := s.provider.SendTemplate(ctx, result.Recipient, msg.templateID, msg.fields)
	if err == nil && strings.TrimSpace(id) == "" {
		err = email.ErrDeliveryFailed
	}
	if err != nil {
		result.Err = err
		s.metrics.RecordNotification(string(scenario), metrics.OutcomeFailed)
		log.Error("notification delivery failed", zap.Error(err))
		return result
	}

	result.NotificationID = id
	s.metrics.RecordNotification(string(scenario), metrics.OutcomeDelivered)
	log.Info("notification sent", zap.String("notification_id", id))
	return result
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
