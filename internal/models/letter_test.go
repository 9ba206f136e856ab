package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidStage(t *testing.T) {
	for _, stage := range []string{StageStage1Complete, StageFulfilled, StageJustPADA, StageProblem, StageDiscarded} {
		assert.True(t, ValidStage(stage), stage)
	}
	assert.False(t, ValidStage("mailed"))
	assert.False(t, ValidStage(""))
}

func TestEditableStage(t *testing.T) {
	assert.True(t, EditableStage(StageStage1Complete))
	assert.True(t, EditableStage(StageJustPADA))
	assert.True(t, EditableStage(StageProblem))

	// Fulfillment and discard only happen through bulk actions.
	assert.False(t, EditableStage(StageFulfilled))
	assert.False(t, EditableStage(StageDiscarded))
}

func TestLetterDisplayName(t *testing.T) {
	postmark := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	personID := 7

	l := &Letter{
		PersonID:        &personID,
		PostmarkDate:    &postmark,
		PersonLastName:  "DOE",
		PersonFirstName: "JOHN",
		PersonInmateNum: "AB1234",
	}
	assert.Equal(t, "AB1234 | DOE, JOHN - 2026-05-04", l.DisplayName())

	orphan := &Letter{PostmarkDate: &postmark}
	assert.Equal(t, "NO PERSON - 2026-05-04", orphan.DisplayName())
}
