package models

import "time"

// PersonPrison links a person to a facility. The most recently created row
// per person is the current assignment; a nil PrisonID means "not in custody".
type PersonPrison struct {
	ID              int       `json:"id"`
	PersonID        int       `json:"person_id"`
	PrisonID        *int      `json:"prison_id"`
	PrisonName      string    `json:"prison_name,omitempty"` // Denormalized for display
	CreatedByUserID *int      `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
