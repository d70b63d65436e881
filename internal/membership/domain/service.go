package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Service interface {
	ListTeamMembers(ctx context.Context, organisationID uuid.UUID) ([]TeamMember, error)
	RemoveTeamMember(ctx context.Context, organisationID, userID uuid.UUID) (RemovalResponse, error)
}

// TeamMember is a member of an organisation with the role the facade
// resolved from their enrolments.
type TeamMember struct {
	UserID          uuid.UUID `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	RoleKey         string    `json:"role_key"`
	EnrolmentStatus string    `json:"enrolment_status"`
	DescriptionKey  string    `json:"description_key,omitempty"`
}

type RemovalResponse struct {
	UserID           uuid.UUID `json:"user_id"`
	OrganisationID   uuid.UUID `json:"organisation_id"`
	NotificationSent bool      `json:"notification_sent"`
}

var (
	ErrInvalidOrganisation = errors.New("invalid_organisation")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrSelfRemoval         = errors.New("self_removal")
)
