package models

import "time"

// Prison types
const (
	PrisonTypeSCI                  = "sci"
	PrisonTypeFCI                  = "fci"
	PrisonTypeUSP                  = "usp"
	PrisonTypeCity                 = "city"
	PrisonTypeCounty               = "county"
	PrisonTypeFDC                  = "fdc"
	PrisonTypeImmigrationDetention = "immigration_detention"
	PrisonTypeBootCamp             = "boot_camp"
	PrisonTypeRehabFacility        = "rehab_facility"
)

type Prison struct {
	ID                       int       `json:"id"`
	Name                     string    `json:"name"`
	PrisonType               string    `json:"prison_type"`
	AdditionalMailingHeaders string    `json:"additional_mailing_headers"`
	MailingAddress           string    `json:"mailing_address"`
	MailingCity              string    `json:"mailing_city"`
	MailingState             string    `json:"mailing_state"`
	MailingZipcode           string    `json:"mailing_zipcode"`
	LegacyAddress            string    `json:"legacy_address,omitempty"`
	Restrictions             string    `json:"restrictions"`
	LegacyID                 string    `json:"legacy_id,omitempty"`
	Notes                    string    `json:"notes"`
	CreatedByUserID          *int      `json:"created_by_user_id,omitempty"`
	ModifiedByUserID         *int      `json:"modified_by_user_id,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// CreatePrisonRequest represents the request body for creating a prison
type CreatePrisonRequest struct {
	Name                     string `json:"name"`
	PrisonType               string `json:"prison_type"`
	AdditionalMailingHeaders string `json:"additional_mailing_headers"`
	MailingAddress           string `json:"mailing_address"`
	MailingCity              string `json:"mailing_city"`
	MailingState             string `json:"mailing_state"`
	MailingZipcode           string `json:"mailing_zipcode"`
	Restrictions             string `json:"restrictions"`
	LegacyID                 string `json:"legacy_id"`
	Notes                    string `json:"notes"`
}

// UpdatePrisonRequest represents the request body for updating a prison
type UpdatePrisonRequest struct {
	Name                     string `json:"name"`
	PrisonType               string `json:"prison_type"`
	AdditionalMailingHeaders string `json:"additional_mailing_headers"`
	MailingAddress           string `json:"mailing_address"`
	MailingCity              string `json:"mailing_city"`
	MailingState             string `json:"mailing_state"`
	MailingZipcode           string `json:"mailing_zipcode"`
	Restrictions             string `json:"restrictions"`
	LegacyID                 string `json:"legacy_id"`
	Notes                    string `json:"notes"`
}

// ValidPrisonType reports whether t is one of the recognized facility types.
func ValidPrisonType(t string) bool {
	switch t {
	case PrisonTypeSCI, PrisonTypeFCI, PrisonTypeUSP, PrisonTypeCity,
		PrisonTypeCounty, PrisonTypeFDC, PrisonTypeImmigrationDetention,
		PrisonTypeBootCamp, PrisonTypeRehabFacility:
		return true
	}
	return false
}
