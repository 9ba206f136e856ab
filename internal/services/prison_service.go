package services

import (
	"context"
	"errors"
	"fmt"

	"pbp-backend/internal/cache"
	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
)

type PrisonService struct {
	Repo *repositories.PrisonRepository
}

func NewPrisonService(repo *repositories.PrisonRepository) *PrisonService {
	return &PrisonService{Repo: repo}
}

func (s *PrisonService) CreatePrison(ctx context.Context, req *models.CreatePrisonRequest, userID int) (*models.Prison, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if !models.ValidPrisonType(req.PrisonType) {
		return nil, fmt.Errorf("invalid prison type: %s", req.PrisonType)
	}

	prison := &models.Prison{
		Name:                     req.Name,
		PrisonType:               req.PrisonType,
		AdditionalMailingHeaders: req.AdditionalMailingHeaders,
		MailingAddress:           req.MailingAddress,
		MailingCity:              req.MailingCity,
		MailingState:             req.MailingState,
		MailingZipcode:           req.MailingZipcode,
		Restrictions:             req.Restrictions,
		LegacyID:                 req.LegacyID,
		Notes:                    req.Notes,
		CreatedByUserID:          &userID,
		ModifiedByUserID:         &userID,
	}
	if prison.MailingState == "" {
		prison.MailingState = "PA"
	}

	if err := s.Repo.Create(ctx, prison); err != nil {
		return nil, err
	}
	cache.InvalidatePrisonList(ctx)

	return prison, nil
}

func (s *PrisonService) GetPrison(ctx context.Context, id int) (*models.Prison, error) {
	return s.Repo.Get(ctx, id)
}

func (s *PrisonService) ListPrisons(ctx context.Context) ([]*models.Prison, error) {
	return s.Repo.List(ctx)
}

func (s *PrisonService) UpdatePrison(ctx context.Context, id int, req *models.UpdatePrisonRequest, userID int) (*models.Prison, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if !models.ValidPrisonType(req.PrisonType) {
		return nil, fmt.Errorf("invalid prison type: %s", req.PrisonType)
	}

	prison, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("prison not found")
	}

	prison.Name = req.Name
	prison.PrisonType = req.PrisonType
	prison.AdditionalMailingHeaders = req.AdditionalMailingHeaders
	prison.MailingAddress = req.MailingAddress
	prison.MailingCity = req.MailingCity
	prison.MailingState = req.MailingState
	prison.MailingZipcode = req.MailingZipcode
	prison.Restrictions = req.Restrictions
	prison.LegacyID = req.LegacyID
	prison.Notes = req.Notes
	prison.ModifiedByUserID = &userID

	if err := s.Repo.Update(ctx, prison); err != nil {
		return nil, err
	}
	cache.InvalidatePrisonList(ctx)

	return s.Repo.Get(ctx, id)
}

// DeletePrison removes a facility. Assignment rows pointing at it cascade
// away, so it refuses while anyone still resolves to this facility.
func (s *PrisonService) DeletePrison(ctx context.Context, id int) error {
	residents, err := s.Repo.CountResidents(ctx, id)
	if err != nil {
		return err
	}
	if residents > 0 {
		return fmt.Errorf("cannot delete: %d people are currently assigned to this facility", residents)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePrisonList(ctx)
	return nil
}
