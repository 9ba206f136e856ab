package services

import (
	"context"
	"errors"
	"fmt"

	"pbp-backend/internal/cache"
	"pbp-backend/internal/eligibility"
	"pbp-backend/internal/mailing"
	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
	"pbp-backend/internal/timeutil"
)

type PersonService struct {
	Repo             *repositories.PersonRepository
	PrisonRepo       *repositories.PrisonRepository
	PersonPrisonRepo *repositories.PersonPrisonRepository
	LetterRepo       *repositories.LetterRepository
}

func NewPersonService(repo *repositories.PersonRepository, prisonRepo *repositories.PrisonRepository,
	personPrisonRepo *repositories.PersonPrisonRepository, letterRepo *repositories.LetterRepository) *PersonService {
	return &PersonService{
		Repo:             repo,
		PrisonRepo:       prisonRepo,
		PersonPrisonRepo: personPrisonRepo,
		LetterRepo:       letterRepo,
	}
}

func (s *PersonService) CreatePerson(ctx context.Context, req *models.CreatePersonRequest, userID int) (*models.Person, error) {
	if req.LastName == "" || req.FirstName == "" {
		return nil, errors.New("first name and last name are required")
	}
	if !models.ValidStatus(req.Status) {
		return nil, fmt.Errorf("invalid status: %s", req.Status)
	}

	inmateNumber := models.NormalizeInmateNumber(req.InmateNumber)
	if inmateNumber != "" {
		if existing, err := s.Repo.GetByInmateNumber(ctx, inmateNumber); err == nil {
			return nil, fmt.Errorf("inmate number %s already belongs to %s, %s",
				inmateNumber, existing.LastName, existing.FirstName)
		}
	}

	person := &models.Person{
		InmateNumber:    inmateNumber,
		LastName:        req.LastName,
		MiddleName:      req.MiddleName,
		FirstName:       req.FirstName,
		NameSuffix:      req.NameSuffix,
		Status:          req.Status,
		Notes:           req.Notes,
		CreatedByUserID: &userID,
	}

	if err := s.Repo.Create(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PersonService) GetPerson(ctx context.Context, id int) (*models.Person, error) {
	return s.Repo.Get(ctx, id)
}

func (s *PersonService) UpdatePerson(ctx context.Context, id int, req *models.UpdatePersonRequest) (*models.Person, error) {
	if req.LastName == "" || req.FirstName == "" {
		return nil, errors.New("first name and last name are required")
	}
	if !models.ValidStatus(req.Status) {
		return nil, fmt.Errorf("invalid status: %s", req.Status)
	}

	person, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("person not found")
	}

	inmateNumber := models.NormalizeInmateNumber(req.InmateNumber)
	if inmateNumber != "" && inmateNumber != person.InmateNumber {
		if existing, err := s.Repo.GetByInmateNumber(ctx, inmateNumber); err == nil && existing.ID != id {
			return nil, fmt.Errorf("inmate number %s already belongs to %s, %s",
				inmateNumber, existing.LastName, existing.FirstName)
		}
	}

	person.InmateNumber = inmateNumber
	person.LastName = req.LastName
	person.MiddleName = req.MiddleName
	person.FirstName = req.FirstName
	person.NameSuffix = req.NameSuffix
	person.Status = req.Status
	person.Notes = req.Notes

	if err := s.Repo.Update(ctx, person); err != nil {
		return nil, err
	}
	cache.InvalidateEligibility(ctx, id)
	return s.Repo.Get(ctx, id)
}

func (s *PersonService) DeletePerson(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateEligibility(ctx, id)
	return nil
}

// CurrentPrison resolves where a person is right now: the facility on their
// most recent assignment row, or nil when they have no assignment or the
// latest row records them as out of custody.
func (s *PersonService) CurrentPrison(ctx context.Context, personID int) (*models.Prison, error) {
	current, err := s.PersonPrisonRepo.GetCurrent(ctx, personID)
	if err != nil {
		return nil, err
	}
	if current == nil || current.PrisonID == nil {
		return nil, nil
	}
	return s.PrisonRepo.Get(ctx, *current.PrisonID)
}

// AssignPrison appends an assignment row. Passing a nil prison id records the
// person as not in custody; the history is never rewritten.
func (s *PersonService) AssignPrison(ctx context.Context, personID int, req *models.AssignPrisonRequest, userID int) (*models.PersonPrison, error) {
	if _, err := s.Repo.Get(ctx, personID); err != nil {
		return nil, errors.New("person not found")
	}
	if req.PrisonID != nil {
		if _, err := s.PrisonRepo.Get(ctx, *req.PrisonID); err != nil {
			return nil, errors.New("prison not found")
		}
	}

	pp := &models.PersonPrison{
		PersonID:        personID,
		PrisonID:        req.PrisonID,
		CreatedByUserID: &userID,
	}
	if err := s.PersonPrisonRepo.Create(ctx, pp); err != nil {
		return nil, err
	}
	cache.InvalidateEligibility(ctx, personID)
	return pp, nil
}

// PrisonHistory returns the full facility assignment history, newest first
func (s *PersonService) PrisonHistory(ctx context.Context, personID int) ([]*models.PersonPrison, error) {
	return s.PersonPrisonRepo.ListForPerson(ctx, personID)
}

// Summary builds the decorated view of one person: current facility, letter
// counts and the eligibility line.
func (s *PersonService) Summary(ctx context.Context, personID int) (*models.PersonSummary, error) {
	person, err := s.Repo.Get(ctx, personID)
	if err != nil {
		return nil, errors.New("person not found")
	}
	return s.summarize(ctx, person)
}

// ListSummaries returns decorated views for all people matching search
func (s *PersonService) ListSummaries(ctx context.Context, search string) ([]*models.PersonSummary, error) {
	people, err := s.Repo.List(ctx, search)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.PersonSummary, 0, len(people))
	for _, person := range people {
		summary, err := s.summarize(ctx, person)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *PersonService) summarize(ctx context.Context, person *models.Person) (*models.PersonSummary, error) {
	letters, err := s.LetterRepo.ListForPerson(ctx, person.ID)
	if err != nil {
		return nil, err
	}

	sum := eligibility.Summarize(letters, person.LegacyLastServedDate, timeutil.Now())

	currentPrison, err := s.CurrentPrison(ctx, person.ID)
	if err != nil {
		return nil, err
	}

	return &models.PersonSummary{
		Person:             person,
		CurrentPrison:      currentPrison,
		LastServed:         sum.LastServed,
		Eligible:           sum.Eligible,
		EligibleOn:         sum.EligibleOn,
		Eligibility:        sum.StatusString(),
		PendingLetterCount: sum.PendingLetterCount,
		PackageCount:       sum.PackageCount,
		LetterCount:        sum.LetterCount,
	}, nil
}

// MailingAddress renders the address block for sending a package to a person
// at their current facility. Empty when nothing should be printed.
func (s *PersonService) MailingAddress(ctx context.Context, personID int) (string, error) {
	person, err := s.Repo.Get(ctx, personID)
	if err != nil {
		return "", errors.New("person not found")
	}
	prison, err := s.CurrentPrison(ctx, personID)
	if err != nil {
		return "", err
	}
	return mailing.Address(person, prison), nil
}
