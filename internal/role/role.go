package role

import (
	"fmt"
	"strings"
)

// Role is one of the fixed company roles, in ascending authority:
// employee < manager < cfo < director < admin.
type Role string

const (
	Employee Role = "employee"
	Manager  Role = "manager"
	CFO      Role = "cfo"
	Director Role = "director"
	Admin    Role = "admin"
)

// Parse normalizes a stored or user-supplied role name. It accepts the
// capitalized forms used by older data ("Employee", "CFO").
func Parse(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Employee:
		return Employee, nil
	case Manager:
		return Manager, nil
	case CFO:
		return CFO, nil
	case Director:
		return Director, nil
	case Admin:
		return Admin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Hierarchy maps an approver role to the submitter roles it may decide on.
// It is built once at startup and injected; callers never mutate it.
//
// This is deliberately a lookup table rather than a rank comparison:
// admin decides on director but nobody decides on admin, and reordering
// roles must never silently grant self-approval.
type Hierarchy map[Role][]Role

// Default returns the production approval table:
//
//	admin    -> director, cfo, manager, employee
//	director -> cfo, manager, employee
//	cfo      -> manager, employee
//	manager  -> employee
//	employee -> (none)
func Default() Hierarchy {
	return Hierarchy{
		Admin:    {Director, CFO, Manager, Employee},
		Director: {CFO, Manager, Employee},
		CFO:      {Manager, Employee},
		Manager:  {Employee},
		Employee: {},
	}
}

// CanDecide reports whether approver may approve or reject an expense
// submitted by submitter. Unknown roles on either side deny.
func (h Hierarchy) CanDecide(approver, submitter Role) bool {
	for _, r := range h[approver] {
		if r == submitter {
			return true
		}
	}
	return false
}

// DisplayOrder is the fixed descending-authority order approval queues are
// grouped in. It is a presentation convention, independent of input order.
func DisplayOrder() []Role {
	return []Role{Director, CFO, Manager, Employee}
}

// All lists every known role, ascending authority.
func All() []Role {
	return []Role{Employee, Manager, CFO, Director, Admin}
}
