// Package eligibility computes whether a person may receive another package.
//
// The program sends at most one package per person per 90 days. A person's
// cooldown is anchored to the most recent fulfilled letter that counts against
// their last-served date; survey-response packages and other non-counting
// fulfillments never move the anchor. A person who has never been served is
// always eligible.
package eligibility

import (
	"fmt"
	"time"

	"pbp-backend/internal/models"
	"pbp-backend/internal/timeutil"
)

// CooldownDays is the minimum interval between qualifying fulfillments for
// the same person. The boundary is inclusive: a package fulfilled exactly 90
// days ago makes the person eligible again today.
const CooldownDays = 90

// Summary is the full derived state for one person's letter history.
type Summary struct {
	LastServed         *time.Time
	HasBeenServed      bool
	Eligible           bool
	EligibleOn         *time.Time
	PendingLetterCount int
	PackageCount       int
	LetterCount        int
}

// Summarize derives the eligibility state from a person's letters as of now.
// legacyLastServed covers people imported from the old spreadsheet whose
// service history predates the letter table; it only applies when no counting
// fulfilled letter exists.
func Summarize(letters []*models.Letter, legacyLastServed *time.Time, now time.Time) Summary {
	s := Summary{LetterCount: len(letters)}

	var lastServed *time.Time
	for _, l := range letters {
		switch l.WorkflowStage {
		case models.StageFulfilled:
			s.PackageCount++
			if l.CountsAgainstLastServed && l.FulfilledDate != nil {
				if lastServed == nil || l.FulfilledDate.After(*lastServed) {
					lastServed = l.FulfilledDate
				}
			}
		case models.StageStage1Complete:
			s.PendingLetterCount++
		}
	}

	if lastServed == nil {
		lastServed = legacyLastServed
	}

	s.LastServed = lastServed
	s.HasBeenServed = lastServed != nil

	if !s.HasBeenServed {
		s.Eligible = true
		return s
	}

	cutoff := now.AddDate(0, 0, -CooldownDays)
	s.Eligible = !lastServed.After(cutoff)
	if !s.Eligible {
		on := lastServed.AddDate(0, 0, CooldownDays)
		s.EligibleOn = &on
	}
	return s
}

// HasPendingLetters reports whether any letters are waiting to be fulfilled.
func (s Summary) HasPendingLetters() bool {
	return s.PendingLetterCount > 0
}

// StatusString renders the human-readable eligibility line shown in listings
// and CSV exports. It is display-only; decisions use Eligible/EligibleOn.
func (s Summary) StatusString() string {
	pending := ""
	if s.HasPendingLetters() {
		pending = fmt.Sprintf("; %d letters pending", s.PendingLetterCount)
	}
	if s.Eligible {
		return "Eligible" + pending
	}
	return fmt.Sprintf("Eligible after %s%s",
		timeutil.ToEastern(*s.EligibleOn).Format(timeutil.DisplayDateLayout), pending)
}
