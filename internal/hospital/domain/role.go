package domain

import "fmt"

// Role is the closed set of roles an account can hold. Authorization is a
// pure function of the role carried in the access token.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleOwner        Role = "OWNER"
	RolePatient      Role = "PATIENT"
	RoleDoctor       Role = "DOCTOR"
	RoleNurse        Role = "NURSE"
	RoleManager      Role = "MANAGER"
	RoleReceptionist Role = "RECEPTIONIST"
	RolePharmacist   Role = "PHARMACIST"
	RoleEmployee     Role = "EMPLOYEE"
)

var allRoles = map[Role]struct{}{
	RoleAdmin:        {},
	RoleOwner:        {},
	RolePatient:      {},
	RoleDoctor:       {},
	RoleNurse:        {},
	RoleManager:      {},
	RoleReceptionist: {},
	RolePharmacist:   {},
	RoleEmployee:     {},
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

func (r Role) String() string { return string(r) }

// ParseRole validates a role string coming from storage or a request body.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// StaffRoles are the roles a staff member's job title may take. PATIENT is
// excluded: patients get their role through patient registration.
func StaffRoles() []Role {
	return []Role{
		RoleAdmin, RoleOwner, RoleDoctor, RoleNurse, RoleManager,
		RoleReceptionist, RolePharmacist, RoleEmployee,
	}
}
