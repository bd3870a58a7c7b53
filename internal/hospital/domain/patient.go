package domain

import "time"

// Patient is a patient profile. PatientID is the human-readable record
// code (JHMS-<year>-NNNNN); ID is the internal ULID.
type Patient struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	DateOfBirth  time.Time  `json:"date_of_birth"`
	Gender       string     `json:"gender"`
	BloodGroup   string     `json:"blood_group,omitempty"`
	ContactPhone string     `json:"contact_phone"`
	AccountID    string     `json:"account_id,omitempty"` // login account, if one exists
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
