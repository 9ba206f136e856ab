package models

import "time"

// Letter workflow stages. stage1_complete is the initial stage; fulfilled and
// discarded are reachable only through bulk actions.
const (
	StageStage1Complete = "stage1_complete"
	StageFulfilled      = "fulfilled"
	StageJustPADA       = "just_pada"
	StageProblem        = "problem"
	StageDiscarded      = "discarded"
)

type Letter struct {
	ID                      int        `json:"id"`
	PersonID                *int       `json:"person_id"`
	PostmarkDate            *time.Time `json:"postmark_date,omitempty"`
	Stage1CompleteDate      *time.Time `json:"stage1_complete_date,omitempty"`
	FulfilledDate           *time.Time `json:"fulfilled_date,omitempty"`
	CountsAgainstLastServed bool       `json:"counts_against_last_served"`
	PrisonSentToID          *int       `json:"prison_sent_to,omitempty"`
	WorkflowStage           string     `json:"workflow_stage"`
	Notes                   string     `json:"notes"`
	CreatedByUserID         *int       `json:"created_by_user_id,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	// Denormalized for display
	PersonLastName   string `json:"person_last_name,omitempty"`
	PersonFirstName  string `json:"person_first_name,omitempty"`
	PersonInmateNum  string `json:"person_inmate_number,omitempty"`
	PrisonSentToName string `json:"prison_sent_to_name,omitempty"`
}

// CreateLetterRequest represents the request body for logging a new letter
type CreateLetterRequest struct {
	PersonID                int    `json:"person_id"`
	PostmarkDate            string `json:"postmark_date,omitempty"` // YYYY-MM-DD, defaults to today
	CountsAgainstLastServed *bool  `json:"counts_against_last_served,omitempty"`
	Notes                   string `json:"notes"`
}

// UpdateLetterRequest represents the request body for editing a letter.
// Stage may only move among stage1_complete, just_pada and problem here;
// fulfillment and discard go through the bulk action endpoints.
type UpdateLetterRequest struct {
	PostmarkDate            string  `json:"postmark_date,omitempty"`
	CountsAgainstLastServed *bool   `json:"counts_against_last_served,omitempty"`
	WorkflowStage           string  `json:"workflow_stage,omitempty"`
	Notes                   *string `json:"notes,omitempty"`
}

// BulkLetterRequest selects letters for a bulk workflow action
type BulkLetterRequest struct {
	LetterIDs []int `json:"letter_ids"`
}

// BulkRejection reports a letter that a bulk action refused to process
type BulkRejection struct {
	LetterID int    `json:"letter_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// BulkActionResult reports the per-row outcome of a bulk workflow action
type BulkActionResult struct {
	Processed []int           `json:"processed"`
	Rejected  []BulkRejection `json:"rejected"`
}

// ValidStage reports whether s is one of the letter workflow stages.
func ValidStage(s string) bool {
	switch s {
	case StageStage1Complete, StageFulfilled, StageJustPADA, StageProblem, StageDiscarded:
		return true
	}
	return false
}

// EditableStage reports whether a letter may be moved to s through a plain
// edit rather than a bulk action.
func EditableStage(s string) bool {
	switch s {
	case StageStage1Complete, StageJustPADA, StageProblem:
		return true
	}
	return false
}

// DisplayName renders the letter identifier used in listings and bulk-action
// reports: "AB1234 | DOE, JOHN - 2026-05-04", or a placeholder when the
// person reference has been severed.
func (l *Letter) DisplayName() string {
	postmark := ""
	if l.PostmarkDate != nil {
		postmark = l.PostmarkDate.Format("2006-01-02")
	}
	if l.PersonLastName == "" && l.PersonID == nil {
		return "NO PERSON - " + postmark
	}
	return l.PersonInmateNum + " | " + l.PersonLastName + ", " + l.PersonFirstName + " - " + postmark
}
