// Package accounts is the HTTP client for the downstream accounts service.
package accounts

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("accounts: not found")
	ErrUpstream      = errors.New("accounts: upstream failure")
	ErrInvalidConfig = errors.New("accounts: invalid config")
)

// TeamMember is one user connected to an organisation.
type TeamMember struct {
	UserID       uuid.UUID         `json:"userId"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	Email        string            `json:"email"`
	PersonRoleID int               `json:"personRoleId"`
	Enrolments   []MemberEnrolment `json:"enrolments"`
}

type MemberEnrolment struct {
	ServiceRoleID   int    `json:"serviceRoleId"`
	EnrolmentStatus string `json:"enrolmentStatus"`
}

// RemovedMember describes the user that was just disconnected, enough to
// address the removal email.
type RemovedMember struct {
	UserID           uuid.UUID `json:"userId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	OrganisationName string    `json:"organisationName"`
}

type problemDetails struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}
