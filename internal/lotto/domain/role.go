package domain

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Landing is the area a client should send the principal to after login.
func (r Role) Landing() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "profile"
}

// RoleSet is the set of roles allowed to run an operation.
type RoleSet []Role

func Roles(roles ...Role) RoleSet { return RoleSet(roles) }

func (s RoleSet) Contains(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}
