// Package domain holds the role catalog and membership types.
package domain

import (
	"errors"
	"strings"
)

// EnrolmentStatus is a user's status within one service role.
type EnrolmentStatus int

const (
	EnrolmentStatusNotSet EnrolmentStatus = iota
	EnrolmentStatusEnrolled
	EnrolmentStatusPending
	EnrolmentStatusApproved
	EnrolmentStatusRejected
	EnrolmentStatusInvited
	EnrolmentStatusOnHold
	EnrolmentStatusNominated
)

var enrolmentStatusNames = map[EnrolmentStatus]string{
	EnrolmentStatusNotSet:    "NotSet",
	EnrolmentStatusEnrolled:  "Enrolled",
	EnrolmentStatusPending:   "Pending",
	EnrolmentStatusApproved:  "Approved",
	EnrolmentStatusRejected:  "Rejected",
	EnrolmentStatusInvited:   "Invited",
	EnrolmentStatusOnHold:    "OnHold",
	EnrolmentStatusNominated: "Nominated",
}

var ErrUnknownEnrolmentStatus = errors.New("unknown_enrolment_status")

func (s EnrolmentStatus) String() string {
	if name, ok := enrolmentStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseEnrolmentStatus maps a status name (case-insensitive) to its value.
// An empty name is NotSet.
func ParseEnrolmentStatus(raw string) (EnrolmentStatus, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return EnrolmentStatusNotSet, nil
	}
	for status, name := range enrolmentStatusNames {
		if strings.EqualFold(name, value) {
			return status, nil
		}
	}
	return EnrolmentStatusNotSet, ErrUnknownEnrolmentStatus
}

// RoleDefinition is one catalog entry: a meaningful (person role, service role) pair.
type RoleDefinition struct {
	Key                  string          `json:"key"`
	ServiceRoleID        int             `json:"service_role_id"`
	PersonRoleID         int             `json:"person_role_id"`
	EnrolmentStatus      EnrolmentStatus `json:"enrolment_status"`
	InvitationTemplateID string          `json:"invitation_template_id,omitempty"`
	DescriptionKey       string          `json:"description_key,omitempty"`
}

type Enrolment struct {
	ServiceRoleID   int             `json:"service_role_id"`
	EnrolmentStatus EnrolmentStatus `json:"enrolment_status"`
}

// Membership is a user's relationship to one organisation.
type Membership struct {
	PersonRoleID int         `json:"person_role_id"`
	Enrolments   []Enrolment `json:"enrolments"`
}

var (
	ErrEmptyCatalog   = errors.New("empty_role_catalog")
	ErrInvalidRoleKey = errors.New("invalid_role_key")
)
