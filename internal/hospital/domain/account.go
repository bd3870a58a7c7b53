package domain

import "time"

// IdentityKind says which profile collection an account's identity
// reference points into.
type IdentityKind string

const (
	IdentityStaff   IdentityKind = "Staff"
	IdentityPatient IdentityKind = "Patient"
)

// Valid reports whether k is one of the two known kinds.
func (k IdentityKind) Valid() bool {
	return k == IdentityStaff || k == IdentityPatient
}

// IdentityRef points at the Staff or Patient profile belonging to an
// account. The auth core only forwards it; profile fields are owned by the
// patients/staff modules.
type IdentityRef struct {
	ID   string       `json:"identity_id"`
	Kind IdentityKind `json:"identity_kind"`
}

// Account is a login account. The password hash and the refresh-credential
// hash never leave this package un-sanitized.
//
// RefreshHash holds the fingerprint of the single currently-valid refresh
// token; nil means no active session. It is written only by login, rotate
// and logout.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Identity     IdentityRef
	RefreshHash  *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SanitizedAccount is the outward-facing projection of Account used in
// login responses and the admin account listing.
type SanitizedAccount struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      Role        `json:"role"`
	Identity  IdentityRef `json:"identity"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// Sanitize strips the password and refresh-credential hashes.
func (a Account) Sanitize() SanitizedAccount {
	return SanitizedAccount{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		Identity:  a.Identity,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
}
