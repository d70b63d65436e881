package domain

// Resolver answers role questions against the immutable startup catalog.
type Resolver interface {
	// HighestRole returns the highest-priority catalog entry that applies to the
	// membership, with its status taken from the matching enrolment.
	HighestRole(membership Membership) (RoleDefinition, bool)
	Lookup(key string) (RoleDefinition, bool)
	Definitions() []RoleDefinition
}
