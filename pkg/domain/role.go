package domain

import dErrors "coinscious/pkg/domain-errors"

// Role names a capability class for mutating calls. Role checks run before
// any business logic; failing one is an authorization error, not a
// compliance denial.
type Role string

const (
	// RoleOracle may write claims records.
	RoleOracle Role = "oracle"
	// RoleController may issue, redeem, and force-move balances.
	RoleController Role = "controller"
	// RoleAdmin may pause the system, freeze wallets, and replace the other
	// two roles in an emergency.
	RoleAdmin Role = "admin"
)

var knownRoles = map[Role]bool{
	RoleOracle:     true,
	RoleController: true,
	RoleAdmin:      true,
}

// ParseRole validates and returns a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !knownRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
	return r, nil
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
