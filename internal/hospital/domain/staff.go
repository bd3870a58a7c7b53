package domain

import "time"

// Staff is a staff profile. StaffID is the human-readable employee code
// (EMP-NNNNN); ID is the internal ULID. JobTitle doubles as the role of
// the linked login account.
type Staff struct {
	ID           string    `json:"id"`
	StaffID      string    `json:"staff_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	JobTitle     Role      `json:"job_title"`
	Department   string    `json:"department"`
	WorkEmail    string    `json:"work_email"`
	ContactPhone string    `json:"contact_phone"`
	AccountID    string    `json:"account_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
