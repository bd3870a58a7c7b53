package domain

import "time"

// Slide is an informational slide shown on a department's public page.
type Slide struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Tagline     string `json:"tagline"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Hidden      bool   `json:"is_hidden"`
}

// DepartmentStaff assigns a staff member to a department with a role label
// local to that department (e.g. "Head of Cardiology").
type DepartmentStaff struct {
	StaffID          string `json:"staff_id"` // internal staff id
	RoleInDepartment string `json:"role_in_department"`
}

// Department is a hospital department with its public-facing content.
type Department struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	ImageURL        string            `json:"image_url"`
	Icon            string            `json:"icon"`
	PatientServices []string          `json:"patient_services"`
	Slides          []Slide           `json:"informational_slides"`
	AssignedStaff   []DepartmentStaff `json:"assigned_staff"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
