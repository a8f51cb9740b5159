package model

// Role is the closed set of account roles.  Values are parsed exactly once
// at the boundary (registration input, JWT claim) and passed around as
// Role afterwards; nothing downstream re-parses free text.
type Role string

const (
	RoleUser  Role = "User"  // default citizen account
	RoleAdmin Role = "Admin" // may moderate content and manage sessions
)

// ParseRole maps arbitrary input onto a known Role.  Unknown or empty
// input falls back to RoleUser so a malformed registration payload can
// never mint an elevated account.
func ParseRole(s string) Role {
	switch s {
	case string(RoleAdmin), "admin", "ADMIN":
		return RoleAdmin
	case string(RoleUser), "user", "USER":
		return RoleUser
	default:
		return RoleUser
	}
}

// Valid reports whether r is one of the declared constants.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
