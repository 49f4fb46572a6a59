package auth

// Role is the single-valued role stored on a user record.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Subject is anything carrying a role value, such as a user record or token claims.
type Subject interface {
	RoleName() string
}

// HasRole compares the subject's role with role by exact equality. There is no
// hierarchy: an admin is not a moderator. A nil subject or an unknown role
// value never matches.
func HasRole(s Subject, role Role) bool {
	if s == nil || !role.Valid() {
		return false
	}
	return Role(s.RoleName()) == role
}

func IsAdmin(s Subject) bool { return HasRole(s, RoleAdmin) }

func IsModerator(s Subject) bool { return HasRole(s, RoleModerator) }

// HasAnyRole reports whether the subject holds one of roles.
func HasAnyRole(s Subject, roles ...Role) bool {
	for _, r := range roles {
		if HasRole(s, r) {
			return true
		}
	}
	return false
}
