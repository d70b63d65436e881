package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/smallbiznis/accountfacade/internal/downstream/accounts"
	"github.com/smallbiznis/accountfacade/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/accountfacade/internal/notification/domain"
	obscontext "github.com/smallbiznis/accountfacade/internal/observability/context"
	obslogger "github.com/smallbiznis/accountfacade/internal/observability/logger"
	roledomain "github.com/smallbiznis/accountfacade/internal/role/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AccountsClient is the subset of the accounts service the membership flows use.
type AccountsClient interface {
	ListTeamMembers(ctx context.Context, organisationID uuid.UUID) ([]accounts.TeamMember, error)
	RemoveTeamMember(ctx context.Context, organisationID, userID uuid.UUID) (accounts.RemovedMember, error)
}

type ServiceParam struct {
	fx.In

	Log           *zap.Logger
	Accounts      AccountsClient
	Roles         roledomain.Resolver
	Notifications notificationdomain.Service
}

type service struct {
	log           *zap.Logger
	accounts      AccountsClient
	roles         roledomain.Resolver
	notifications notificationdomain.Service
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:           p.Log.Named("membership.service"),
		accounts:      p.Accounts,
		roles:         p.Roles,
		notifications: p.Notifications,
	}
}

// ListTeamMembers resolves each member's highest role. Members holding no
// catalog role are left out.
func (s *service) ListTeamMembers(ctx context.Context, organisationID uuid.UUID) ([]domain.TeamMember, error) {
	if organisationID == uuid.Nil {
		return nil, domain.ErrInvalidOrganisation
	}
	log := obslogger.WithOrganisation(obslogger.WithContext(ctx, s.log), organisationID.String())

	members, err := s.accounts.ListTeamMembers(ctx, organisationID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TeamMember, 0, len(members))
	for _, member := range members {
		role, ok := s.roles.HighestRole(toMembership(log, member))
		if !ok {
			continue
		}
		out = append(out, domain.TeamMember{
			UserID:          member.UserID,
			FirstName:       member.FirstName,
			LastName:        member.LastName,
			Email:           member.Email,
			RoleKey:         role.Key,
			EnrolmentStatus: role.EnrolmentStatus.String(),
			DescriptionKey:  role.DescriptionKey,
		})
	}

	log.Debug("team members listed",
		zap.Int("downstream_count", len(members)),
		zap.Int("visible_count", len(out)),
	)
	return out, nil
}

// RemoveTeamMember disconnects the user and then emails them. A failed email
// is logged and reported in the response; the removal itself stands.
func (s *service) RemoveTeamMember(ctx context.Context, organisationID, userID uuid.UUID) (domain.RemovalResponse, error) {
	if organisationID == uuid.Nil {
		return domain.RemovalResponse{}, domain.ErrInvalidOrganisation
	}
	if userID == uuid.Nil {
		return domain.RemovalResponse{}, domain.ErrInvalidUser
	}
	if caller := obscontext.UserIDFromContext(ctx); strings.EqualFold(caller, userID.String()) {
		return domain.RemovalResponse{}, domain.ErrSelfRemoval
	}
	log := obslogger.WithOrganisation(obslogger.WithContext(ctx, s.log), organisationID.String()).
		With(zap.String("removed_user_id", userID.String()))

	removed, err := s.accounts.RemoveTeamMember(ctx, organisationID, userID)
	if err != nil {
		return domain.RemovalResponse{}, err
	}
	log.Info("team member removed")

	resp := domain.RemovalResponse{
		UserID:         userID,
		OrganisationID: organisationID,
	}

	result, err := s.notifications.SendRemovedUser(ctx, notificationdomain.RemovedUserRequest{
		UserID:           userID,
		OrganisationID:   organisationID,
		FirstName:        removed.FirstName,
		LastName:         removed.LastName,
		Recipient:        removed.Email,
		OrganisationName: removed.OrganisationName,
	})
	if err != nil {
		log.Warn("removed user notification skipped", zap.Error(err))
		return resp, nil
	}
	resp.NotificationSent = result.Delivered()
	return resp, nil
}

func toMembership(log *zap.Logger, member accounts.TeamMember) roledomain.Membership {
	enrolments := make([]roledomain.Enrolment, 0, len(member.Enrolments))
	for _, e := range member.Enrolments {
		status, err := roledomain.ParseEnrolmentStatus(e.EnrolmentStatus)
		if err != nil {
			log.Warn("unknown enrolment status from accounts service",
				zap.String("user_id", member.UserID.String()),
				zap.String("status", e.EnrolmentStatus),
			)
		}
		enrolments = append(enrolments, roledomain.Enrolment{
			ServiceRoleID:   e.ServiceRoleID,
			EnrolmentStatus: status,
		})
	}
	return roledomain.Membership{
		PersonRoleID: member.PersonRoleID,
		Enrolments:   enrolments,
	}
}
