package models

import (
	"strings"
	"time"
)

// Person statuses
const (
	StatusNone     = ""
	StatusSolitary = "solitary"
	StatusLifer    = "lifer"
)

type Person struct {
	ID                   int        `json:"id"`
	InmateNumber         string     `json:"inmate_number"`
	LastName             string     `json:"last_name"`
	MiddleName           string     `json:"middle_name"`
	FirstName            string     `json:"first_name"`
	NameSuffix           string     `json:"name_suffix"`
	Status               string     `json:"status"`
	Notes                string     `json:"notes"`
	LegacyPrisonID       *string    `json:"legacy_prison_id,omitempty"`
	LegacyLastServedDate *time.Time `json:"legacy_last_served_date,omitempty"`
	CreatedByUserID      *int       `json:"created_by_user_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CreatePersonRequest represents the request body for creating a person
type CreatePersonRequest struct {
	InmateNumber string `json:"inmate_number"`
	LastName     string `json:"last_name"`
	MiddleName   string `json:"middle_name"`
	FirstName    string `json:"first_name"`
	NameSuffix   string `json:"name_suffix"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// UpdatePersonRequest represents the request body for updating a person
type UpdatePersonRequest struct {
	InmateNumber string `json:"inmate_number"`
	LastName     string `json:"last_name"`
	MiddleName   string `json:"middle_name"`
	FirstName    string `json:"first_name"`
	NameSuffix   string `json:"name_suffix"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// AssignPrisonRequest represents the request body for assigning a person to a
// facility. A null prison_id records "not in custody".
type AssignPrisonRequest struct {
	PrisonID *int `json:"prison_id"`
}

// PersonSummary is a person decorated with the computed fields shown in
// listings and CSV exports.
type PersonSummary struct {
	Person             *Person    `json:"person"`
	CurrentPrison      *Prison    `json:"current_prison,omitempty"`
	LastServed         *time.Time `json:"last_served,omitempty"`
	Eligible           bool       `json:"eligible"`
	EligibleOn         *time.Time `json:"eligible_on,omitempty"`
	Eligibility        string     `json:"eligibility"`
	PendingLetterCount int        `json:"pending_letter_count"`
	PackageCount       int        `json:"package_count"`
	LetterCount        int        `json:"letter_count"`
}

// NormalizeInmateNumber strips everything but letters and digits and
// uppercases the rest. DOC numbers arrive with dashes, spaces and
// inconsistent casing; "AB-1234" and "ab 1234" are the same number.
func NormalizeInmateNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// ValidStatus reports whether s is one of the recognized person statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNone, StatusSolitary, StatusLifer:
		return true
	}
	return false
}
