package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/role/domain"
)

// Catalog is the role catalog sorted by (ServiceRoleID, PersonRoleID).
// It is never mutated after construction.
type Catalog struct {
	entries []domain.RoleDefinition
	byKey   map[string]int
}

// NewCatalog copies and sorts the definitions. Keys must be unique.
func NewCatalog(defs []domain.RoleDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	entries := sortedDefinitions(defs)
	byKey := make(map[string]int, len(entries))
	for i, def := range entries {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return nil, domain.ErrInvalidRoleKey
		}
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", domain.ErrInvalidRoleKey, key)
		}
		byKey[key] = i
	}

	return &Catalog{entries: entries, byKey: byKey}, nil
}

// NewCatalogFromConfig builds the catalog from the startup configuration.
func NewCatalogFromConfig(cfg config.CatalogConfig) (*Catalog, error) {
	defs := make([]domain.RoleDefinition, 0, len(cfg.Roles))
	for _, entry := range cfg.Roles {
		status, err := domain.ParseEnrolmentStatus(entry.EnrolmentStatus)
		if err != nil {
			return nil, fmt.Errorf("role %q: %w", entry.Key, err)
		}
		defs = append(defs, domain.RoleDefinition{
			Key:                  strings.TrimSpace(entry.Key),
			ServiceRoleID:        entry.ServiceRoleID,
			PersonRoleID:         entry.PersonRoleID,
			EnrolmentStatus:      status,
			InvitationTemplateID: strings.TrimSpace(entry.InvitationTemplateID),
			DescriptionKey:       strings.TrimSpace(entry.DescriptionKey),
		})
	}
	return NewCatalog(defs)
}

func (c *Catalog) HighestRole(membership domain.Membership) (domain.RoleDefinition, bool) {
	return highestRole(membership, c.entries)
}

func (c *Catalog) Lookup(key string) (domain.RoleDefinition, bool) {
	idx, ok := c.byKey[strings.TrimSpace(key)]
	if !ok {
		return domain.RoleDefinition{}, false
	}
	return c.entries[idx], true
}

// Definitions returns a copy of the catalog in priority order.
func (c *Catalog) Definitions() []domain.RoleDefinition {
	out := make([]domain.RoleDefinition, len(c.entries))
	copy(out, c.entries)
	return out
}

// GetHighestRole resolves a membership against an unsorted set of definitions.
func GetHighestRole(membership domain.Membership, defs []domain.RoleDefinition) (domain.RoleDefinition, bool) {
	return highestRole(membership, sortedDefinitions(defs))
}

// highestRole expects entries already in priority order. Lower ServiceRoleID
// wins, then lower PersonRoleID.
func highestRole(membership domain.Membership, entries []domain.RoleDefinition) (domain.RoleDefinition, bool) {
	enrolments := make([]domain.Enrolment, len(membership.Enrolments))
	copy(enrolments, membership.Enrolments)
	sort.SliceStable(enrolments, func(i, j int) bool {
		return enrolments[i].ServiceRoleID < enrolments[j].ServiceRoleID
	})

	for _, entry := range entries {
		if entry.PersonRoleID != membership.PersonRoleID {
			continue
		}
		for _, enrolment := range enrolments {
			if enrolment.ServiceRoleID != entry.ServiceRoleID {
				continue
			}
			resolved := entry
			resolved.EnrolmentStatus = enrolment.EnrolmentStatus
			return resolved, true
		}
	}
	return domain.RoleDefinition{}, false
}

func sortedDefinitions(defs []domain.RoleDefinition) []domain.RoleDefinition {
	out := make([]domain.RoleDefinition, len(defs))
	copy(out, defs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ServiceRoleID != out[j].ServiceRoleID {
			return out[i].ServiceRoleID < out[j].ServiceRoleID
		}
		return out[i].PersonRoleID < out[j].PersonRoleID
	})
	return out
}
