package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbp-backend/internal/models"
	"pbp-backend/internal/timeutil"
)

func date(value string) time.Time {
	t, err := timeutil.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

func fulfilledLetter(fulfilled string, counts bool) *models.Letter {
	d := date(fulfilled)
	return &models.Letter{
		WorkflowStage:           models.StageFulfilled,
		FulfilledDate:           &d,
		CountsAgainstLastServed: counts,
	}
}

func TestSummarizeNeverServed(t *testing.T) {
	s := Summarize(nil, nil, date("2026-06-01"))

	assert.True(t, s.Eligible)
	assert.False(t, s.HasBeenServed)
	assert.Nil(t, s.LastServed)
	assert.Nil(t, s.EligibleOn)
	assert.Equal(t, 0, s.LetterCount)
}

func TestSummarizeCooldownBoundary(t *testing.T) {
	now := date("2026-06-01")

	// Served exactly 90 days ago: eligible again today.
	s := Summarize([]*models.Letter{fulfilledLetter("2026-03-03", true)}, nil, now)
	assert.True(t, s.Eligible)
	assert.Nil(t, s.EligibleOn)

	// Served 89 days ago: one more day to wait.
	s = Summarize([]*models.Letter{fulfilledLetter("2026-03-04", true)}, nil, now)
	assert.False(t, s.Eligible)
	require.NotNil(t, s.EligibleOn)
	assert.Equal(t, date("2026-06-02"), *s.EligibleOn)

	// Served 91 days ago: comfortably eligible.
	s = Summarize([]*models.Letter{fulfilledLetter("2026-03-02", true)}, nil, now)
	assert.True(t, s.Eligible)
}

func TestSummarizeNonCountingFulfillment(t *testing.T) {
	now := date("2026-06-01")

	// A survey-response package fulfilled yesterday does not start a cooldown.
	s := Summarize([]*models.Letter{fulfilledLetter("2026-05-31", false)}, nil, now)
	assert.True(t, s.Eligible)
	assert.False(t, s.HasBeenServed)
	assert.Equal(t, 1, s.PackageCount)

	// But it still counts as a package alongside a counting one.
	letters := []*models.Letter{
		fulfilledLetter("2026-05-31", false),
		fulfilledLetter("2026-05-20", true),
	}
	s = Summarize(letters, nil, now)
	assert.False(t, s.Eligible)
	require.NotNil(t, s.LastServed)
	assert.Equal(t, date("2026-05-20"), *s.LastServed)
	assert.Equal(t, 2, s.PackageCount)
}

func TestSummarizeMostRecentFulfillmentWins(t *testing.T) {
	now := date("2026-06-01")
	letters := []*models.Letter{
		fulfilledLetter("2026-01-10", true),
		fulfilledLetter("2026-05-15", true),
		fulfilledLetter("2026-03-01", true),
	}

	s := Summarize(letters, nil, now)
	require.NotNil(t, s.LastServed)
	assert.Equal(t, date("2026-05-15"), *s.LastServed)
	assert.False(t, s.Eligible)
}

func TestSummarizeLegacyLastServed(t *testing.T) {
	now := date("2026-06-01")
	legacy := date("2026-05-01")

	// Legacy date applies when no counting fulfillment exists.
	s := Summarize(nil, &legacy, now)
	assert.False(t, s.Eligible)
	require.NotNil(t, s.LastServed)
	assert.Equal(t, legacy, *s.LastServed)

	// A counting fulfillment supersedes the legacy date, even an older one.
	s = Summarize([]*models.Letter{fulfilledLetter("2026-04-01", true)}, &legacy, now)
	require.NotNil(t, s.LastServed)
	assert.Equal(t, date("2026-04-01"), *s.LastServed)
}

func TestSummarizePendingAndCounts(t *testing.T) {
	now := date("2026-06-01")
	letters := []*models.Letter{
		{WorkflowStage: models.StageStage1Complete},
		{WorkflowStage: models.StageStage1Complete},
		{WorkflowStage: models.StageProblem},
		{WorkflowStage: models.StageDiscarded},
		fulfilledLetter("2026-01-01", true),
	}

	s := Summarize(letters, nil, now)
	assert.Equal(t, 2, s.PendingLetterCount)
	assert.True(t, s.HasPendingLetters())
	assert.Equal(t, 1, s.PackageCount)
	assert.Equal(t, 5, s.LetterCount)
	assert.True(t, s.Eligible)
}

func TestStatusString(t *testing.T) {
	now := date("2026-06-01")

	s := Summarize(nil, nil, now)
	assert.Equal(t, "Eligible", s.StatusString())

	s = Summarize([]*models.Letter{
		{WorkflowStage: models.StageStage1Complete},
		{WorkflowStage: models.StageStage1Complete},
		{WorkflowStage: models.StageStage1Complete},
	}, nil, now)
	assert.Equal(t, "Eligible; 3 letters pending", s.StatusString())

	s = Summarize([]*models.Letter{fulfilledLetter("2026-05-15", true)}, nil, now)
	assert.Equal(t, "Eligible after August 13, 2026", s.StatusString())

	letters := []*models.Letter{
		fulfilledLetter("2026-05-15", true),
		{WorkflowStage: models.StageStage1Complete},
	}
	s = Summarize(letters, nil, now)
	assert.Equal(t, "Eligible after August 13, 2026; 1 letters pending", s.StatusString())
}
