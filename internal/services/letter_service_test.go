package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
)

type fulfillCall struct {
	letterID int
	at       time.Time
	prisonID *int
}

type stageCall struct {
	letterID int
	stage    string
}

type fakeLetterStore struct {
	letters   map[int]*models.Letter
	fulfilled []fulfillCall
	staged    []stageCall
}

func newFakeLetterStore(letters ...*models.Letter) *fakeLetterStore {
	s := &fakeLetterStore{letters: map[int]*models.Letter{}}
	for _, l := range letters {
		s.letters[l.ID] = l
	}
	return s
}

func (s *fakeLetterStore) Create(ctx context.Context, l *models.Letter) error {
	l.ID = len(s.letters) + 1
	if l.WorkflowStage == "" {
		l.WorkflowStage = models.StageStage1Complete
	}
	s.letters[l.ID] = l
	return nil
}

func (s *fakeLetterStore) Get(ctx context.Context, id int) (*models.Letter, error) {
	l, ok := s.letters[id]
	if !ok {
		return nil, errors.New("letter not found")
	}
	return l, nil
}

func (s *fakeLetterStore) List(ctx context.Context, f repositories.LetterFilter) ([]*models.Letter, error) {
	var out []*models.Letter
	for _, l := range s.letters {
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeLetterStore) GetByIDs(ctx context.Context, ids []int) ([]*models.Letter, error) {
	var out []*models.Letter
	for _, id := range ids {
		if l, ok := s.letters[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLetterStore) Update(ctx context.Context, l *models.Letter) error {
	s.letters[l.ID] = l
	return nil
}

func (s *fakeLetterStore) Delete(ctx context.Context, id int) error {
	delete(s.letters, id)
	return nil
}

func (s *fakeLetterStore) MarkFulfilled(ctx context.Context, letterID int, fulfilledAt time.Time, prisonID *int) error {
	l := s.letters[letterID]
	l.WorkflowStage = models.StageFulfilled
	l.FulfilledDate = &fulfilledAt
	l.PrisonSentToID = prisonID
	s.fulfilled = append(s.fulfilled, fulfillCall{letterID, fulfilledAt, prisonID})
	return nil
}

func (s *fakeLetterStore) SetStage(ctx context.Context, letterID int, stage string) error {
	s.letters[letterID].WorkflowStage = stage
	s.staged = append(s.staged, stageCall{letterID, stage})
	return nil
}

func (s *fakeLetterStore) CountByStage(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, l := range s.letters {
		counts[l.WorkflowStage]++
	}
	return counts, nil
}

type fakePersonStore struct {
	people map[int]*models.Person
	nextID int
}

func newFakePersonStore(people ...*models.Person) *fakePersonStore {
	s := &fakePersonStore{people: map[int]*models.Person{}}
	for _, p := range people {
		s.people[p.ID] = p
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	return s
}

func (s *fakePersonStore) Create(ctx context.Context, p *models.Person) error {
	s.nextID++
	p.ID = s.nextID
	s.people[p.ID] = p
	return nil
}

func (s *fakePersonStore) Get(ctx context.Context, id int) (*models.Person, error) {
	p, ok := s.people[id]
	if !ok {
		return nil, errors.New("person not found")
	}
	return p, nil
}

func (s *fakePersonStore) GetByInmateNumber(ctx context.Context, inmateNumber string) (*models.Person, error) {
	for _, p := range s.people {
		if p.InmateNumber == inmateNumber {
			return p, nil
		}
	}
	return nil, errors.New("person not found")
}

func (s *fakePersonStore) Update(ctx context.Context, p *models.Person) error {
	s.people[p.ID] = p
	return nil
}

type fakeAssignmentStore struct {
	current   map[int]*models.PersonPrison
	createErr error
	created   []*models.PersonPrison
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{current: map[int]*models.PersonPrison{}}
}

func (s *fakeAssignmentStore) assign(personID int, prisonID int) {
	s.current[personID] = &models.PersonPrison{PersonID: personID, PrisonID: &prisonID}
}

func (s *fakeAssignmentStore) Create(ctx context.Context, pp *models.PersonPrison) error {
	if s.createErr != nil {
		return s.createErr
	}
	pp.ID = len(s.created) + 1
	s.created = append(s.created, pp)
	s.current[pp.PersonID] = pp
	return nil
}

func (s *fakeAssignmentStore) GetCurrent(ctx context.Context, personID int) (*models.PersonPrison, error) {
	return s.current[personID], nil
}

type fakeActionLogStore struct {
	entries []*models.AdminActionLog
}

func (s *fakeActionLogStore) CreateActionLog(ctx context.Context, entry *models.AdminActionLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

type fakePrisonStore struct {
	byLegacyID map[string]*models.Prison
	nextID     int
}

func newFakePrisonStore(prisons ...*models.Prison) *fakePrisonStore {
	s := &fakePrisonStore{byLegacyID: map[string]*models.Prison{}}
	for _, p := range prisons {
		s.byLegacyID[p.LegacyID] = p
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	return s
}

func (s *fakePrisonStore) Create(ctx context.Context, p *models.Prison) error {
	s.nextID++
	p.ID = s.nextID
	if p.LegacyID != "" {
		s.byLegacyID[p.LegacyID] = p
	}
	return nil
}

func (s *fakePrisonStore) GetByLegacyID(ctx context.Context, legacyID string) (*models.Prison, error) {
	p, ok := s.byLegacyID[legacyID]
	if !ok {
		return nil, errors.New("prison not found")
	}
	return p, nil
}

func (s *fakePrisonStore) Update(ctx context.Context, p *models.Prison) error {
	return nil
}

func pendingLetter(id int, personID int, lastName string) *models.Letter {
	pid := personID
	return &models.Letter{
		ID:              id,
		PersonID:        &pid,
		WorkflowStage:   models.StageStage1Complete,
		PersonLastName:  lastName,
		PersonFirstName: "TEST",
		PersonInmateNum: "AB1234",
	}
}

func newTestLetterService(letters *fakeLetterStore, people *fakePersonStore,
	assignments *fakeAssignmentStore, logs *fakeActionLogStore) *LetterService {
	return NewLetterService(letters, people, assignments, logs)
}

func TestBulkFulfillStampsOneTimestampAndCurrentPrison(t *testing.T) {
	letters := newFakeLetterStore(
		pendingLetter(1, 10, "DOE"),
		pendingLetter(2, 20, "ROE"),
	)
	people := newFakePersonStore(
		&models.Person{ID: 10, LastName: "DOE"},
		&models.Person{ID: 20, LastName: "ROE"},
	)
	assignments := newFakeAssignmentStore()
	assignments.assign(10, 100)
	assignments.assign(20, 200)
	logs := &fakeActionLogStore{}

	svc := newTestLetterService(letters, people, assignments, logs)
	result, err := svc.BulkFulfill(context.Background(), []int{1, 2}, 7, "10.0.0.1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2}, result.Processed)
	assert.Empty(t, result.Rejected)

	require.Len(t, letters.fulfilled, 2)
	// One action, one timestamp, even across people at different facilities
	assert.True(t, letters.fulfilled[0].at.Equal(letters.fulfilled[1].at))

	byLetter := map[int]fulfillCall{}
	for _, c := range letters.fulfilled {
		byLetter[c.letterID] = c
	}
	require.NotNil(t, byLetter[1].prisonID)
	assert.Equal(t, 100, *byLetter[1].prisonID)
	require.NotNil(t, byLetter[2].prisonID)
	assert.Equal(t, 200, *byLetter[2].prisonID)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, "bulk_fulfill", logs.entries[0].ActionType)
	assert.Equal(t, "letter", logs.entries[0].TargetType)
	assert.Equal(t, 7, logs.entries[0].AdminUserID)
}

func TestBulkFulfillRejectsFinishedAndPersonlessLetters(t *testing.T) {
	done := pendingLetter(1, 10, "DOE")
	done.WorkflowStage = models.StageFulfilled
	tossed := pendingLetter(2, 10, "DOE")
	tossed.WorkflowStage = models.StageDiscarded
	orphan := &models.Letter{ID: 3, WorkflowStage: models.StageStage1Complete}
	ok := pendingLetter(4, 10, "DOE")

	letters := newFakeLetterStore(done, tossed, orphan, ok)
	people := newFakePersonStore(&models.Person{ID: 10, LastName: "DOE"})
	assignments := newFakeAssignmentStore()
	assignments.assign(10, 100)
	logs := &fakeActionLogStore{}

	svc := newTestLetterService(letters, people, assignments, logs)
	result, err := svc.BulkFulfill(context.Background(), []int{1, 2, 3, 4}, 7, "")
	require.NoError(t, err)

	assert.Equal(t, []int{4}, result.Processed)
	require.Len(t, result.Rejected, 3)

	reasons := map[int]string{}
	names := map[int]string{}
	for _, rej := range result.Rejected {
		reasons[rej.LetterID] = rej.Reason
		names[rej.LetterID] = rej.Name
	}
	assert.Equal(t, "already fulfilled", reasons[1])
	assert.Equal(t, "letter was discarded", reasons[2])
	assert.Equal(t, "no person on record", reasons[3])

	// Rejections identify the letter the way listings do
	assert.Equal(t, done.DisplayName(), names[1])
	assert.Equal(t, orphan.DisplayName(), names[3])

	// The fulfilled letter's row was never re-stamped
	require.Len(t, letters.fulfilled, 1)
	assert.Equal(t, 4, letters.fulfilled[0].letterID)
}

func TestBulkDiscardKeepsFulfilledLetters(t *testing.T) {
	done := pendingLetter(1, 10, "DOE")
	done.WorkflowStage = models.StageFulfilled
	pending := pendingLetter(2, 10, "DOE")

	letters := newFakeLetterStore(done, pending)
	people := newFakePersonStore(&models.Person{ID: 10, LastName: "DOE"})
	assignments := newFakeAssignmentStore()
	logs := &fakeActionLogStore{}

	svc := newTestLetterService(letters, people, assignments, logs)
	result, err := svc.BulkDiscard(context.Background(), []int{1, 2}, 7, "")
	require.NoError(t, err)

	assert.Equal(t, []int{2}, result.Processed)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 1, result.Rejected[0].LetterID)
	assert.Equal(t, done.DisplayName(), result.Rejected[0].Name)
	assert.Equal(t, "already fulfilled", result.Rejected[0].Reason)

	require.Len(t, letters.staged, 1)
	assert.Equal(t, stageCall{letterID: 2, stage: models.StageDiscarded}, letters.staged[0])
	assert.Equal(t, models.StageFulfilled, done.WorkflowStage)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, "bulk_discard", logs.entries[0].ActionType)
}

func TestBulkMarkStage1RejectsFulfilledLetters(t *testing.T) {
	done := pendingLetter(1, 10, "DOE")
	done.WorkflowStage = models.StageFulfilled
	problem := pendingLetter(2, 10, "DOE")
	problem.WorkflowStage = models.StageProblem

	letters := newFakeLetterStore(done, problem)
	svc := newTestLetterService(letters, newFakePersonStore(), newFakeAssignmentStore(), &fakeActionLogStore{})

	result, err := svc.BulkMarkStage1(context.Background(), []int{1, 2}, 7, "")
	require.NoError(t, err)

	assert.Equal(t, []int{2}, result.Processed)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "already fulfilled", result.Rejected[0].Reason)
	assert.Equal(t, models.StageStage1Complete, problem.WorkflowStage)
	assert.Equal(t, models.StageFulfilled, done.WorkflowStage)
}

func TestCreateLetterRequiresCurrentPrison(t *testing.T) {
	letters := newFakeLetterStore()
	people := newFakePersonStore(&models.Person{ID: 10, LastName: "DOE", FirstName: "JOHN"})
	assignments := newFakeAssignmentStore()
	svc := newTestLetterService(letters, people, assignments, &fakeActionLogStore{})

	_, err := svc.CreateLetter(context.Background(), &models.CreateLetterRequest{PersonID: 10}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no current prison on file")

	assignments.assign(10, 100)
	letter, err := svc.CreateLetter(context.Background(), &models.CreateLetterRequest{PersonID: 10}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StageStage1Complete, letter.WorkflowStage)
	assert.True(t, letter.CountsAgainstLastServed)
}
