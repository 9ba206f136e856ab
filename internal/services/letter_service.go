package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pbp-backend/internal/cache"
	"pbp-backend/internal/metrics"
	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
	"pbp-backend/internal/timeutil"
)

type LetterService struct {
	Repo             LetterStore
	PersonRepo       PersonStore
	PersonPrisonRepo AssignmentStore
	ActionLogRepo    ActionLogStore
}

func NewLetterService(repo LetterStore, personRepo PersonStore,
	personPrisonRepo AssignmentStore, actionLogRepo ActionLogStore) *LetterService {
	return &LetterService{
		Repo:             repo,
		PersonRepo:       personRepo,
		PersonPrisonRepo: personPrisonRepo,
		ActionLogRepo:    actionLogRepo,
	}
}

// CreateLetter logs a new request letter. The person must be in custody at a
// known facility; a letter from someone with no current prison can't be
// fulfilled and signals the record needs attention first.
func (s *LetterService) CreateLetter(ctx context.Context, req *models.CreateLetterRequest, userID int) (*models.Letter, error) {
	if req.PersonID == 0 {
		return nil, errors.New("person_id is required")
	}
	person, err := s.PersonRepo.Get(ctx, req.PersonID)
	if err != nil {
		return nil, errors.New("person not found")
	}

	current, err := s.PersonPrisonRepo.GetCurrent(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}
	if current == nil || current.PrisonID == nil {
		return nil, fmt.Errorf("%s, %s has no current prison on file; record their facility before logging letters",
			person.LastName, person.FirstName)
	}

	letter := &models.Letter{
		PersonID:                &req.PersonID,
		CountsAgainstLastServed: true,
		Notes:                   req.Notes,
		CreatedByUserID:         &userID,
	}
	if req.CountsAgainstLastServed != nil {
		letter.CountsAgainstLastServed = *req.CountsAgainstLastServed
	}

	if req.PostmarkDate != "" {
		postmark, err := timeutil.ParseDate(req.PostmarkDate)
		if err != nil {
			return nil, fmt.Errorf("invalid postmark date: %s", req.PostmarkDate)
		}
		letter.PostmarkDate = &postmark
	} else {
		today := timeutil.Now()
		letter.PostmarkDate = &today
	}

	if err := s.Repo.Create(ctx, letter); err != nil {
		return nil, err
	}
	cache.InvalidateEligibility(ctx, req.PersonID)

	return s.Repo.Get(ctx, letter.ID)
}

func (s *LetterService) GetLetter(ctx context.Context, id int) (*models.Letter, error) {
	return s.Repo.Get(ctx, id)
}

func (s *LetterService) ListLetters(ctx context.Context, filter repositories.LetterFilter) ([]*models.Letter, error) {
	if filter.WorkflowStage != "" && !models.ValidStage(filter.WorkflowStage) {
		return nil, fmt.Errorf("invalid workflow stage: %s", filter.WorkflowStage)
	}
	return s.Repo.List(ctx, filter)
}

// UpdateLetter edits a letter's postmark, notes, counting flag and stage.
// Stage changes here may only move among the pre-fulfillment stages;
// fulfillment and discard go through the bulk actions so their bookkeeping
// can't be skipped.
func (s *LetterService) UpdateLetter(ctx context.Context, id int, req *models.UpdateLetterRequest) (*models.Letter, error) {
	letter, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("letter not found")
	}

	if req.WorkflowStage != "" && req.WorkflowStage != letter.WorkflowStage {
		if !models.EditableStage(letter.WorkflowStage) {
			return nil, fmt.Errorf("letter is %s; its stage can no longer be edited", letter.WorkflowStage)
		}
		if !models.EditableStage(req.WorkflowStage) {
			return nil, fmt.Errorf("stage %s is only reachable through bulk actions", req.WorkflowStage)
		}
		letter.WorkflowStage = req.WorkflowStage
	}

	if req.PostmarkDate != "" {
		postmark, err := timeutil.ParseDate(req.PostmarkDate)
		if err != nil {
			return nil, fmt.Errorf("invalid postmark date: %s", req.PostmarkDate)
		}
		letter.PostmarkDate = &postmark
	}
	if req.CountsAgainstLastServed != nil {
		letter.CountsAgainstLastServed = *req.CountsAgainstLastServed
	}
	if req.Notes != nil {
		letter.Notes = *req.Notes
	}

	if err := s.Repo.Update(ctx, letter); err != nil {
		return nil, err
	}
	if letter.PersonID != nil {
		cache.InvalidateEligibility(ctx, *letter.PersonID)
	}
	return s.Repo.Get(ctx, id)
}

func (s *LetterService) DeleteLetter(ctx context.Context, id int) error {
	letter, err := s.Repo.Get(ctx, id)
	if err != nil {
		return errors.New("letter not found")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if letter.PersonID != nil {
		cache.InvalidateEligibility(ctx, *letter.PersonID)
	}
	return nil
}

// BulkFulfill marks the selected letters as sent. Each letter is fulfilled
// independently: the fulfillment time is stamped and the person's current
// facility is frozen onto the row. Letters already fulfilled or discarded are
// reported back instead of silently re-stamped.
func (s *LetterService) BulkFulfill(ctx context.Context, letterIDs []int, adminUserID int, ipAddress string) (*models.BulkActionResult, error) {
	letters, err := s.Repo.GetByIDs(ctx, letterIDs)
	if err != nil {
		return nil, err
	}

	result := &models.BulkActionResult{Processed: []int{}, Rejected: []models.BulkRejection{}}
	now := timeutil.Now()

	for _, letter := range letters {
		switch letter.WorkflowStage {
		case models.StageFulfilled:
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: "already fulfilled",
			})
			continue
		case models.StageDiscarded:
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: "letter was discarded",
			})
			continue
		}

		if letter.PersonID == nil {
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: "no person on record",
			})
			continue
		}

		var prisonID *int
		current, err := s.PersonPrisonRepo.GetCurrent(ctx, *letter.PersonID)
		if err != nil {
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: err.Error(),
			})
			continue
		}
		if current != nil {
			prisonID = current.PrisonID
		}

		if err := s.Repo.MarkFulfilled(ctx, letter.ID, now, prisonID); err != nil {
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: err.Error(),
			})
			continue
		}

		result.Processed = append(result.Processed, letter.ID)
		metrics.LettersFulfilledTotal.Inc()
		cache.InvalidateEligibility(ctx, *letter.PersonID)
	}

	s.logBulkAction(ctx, adminUserID, "bulk_fulfill", ipAddress, result)
	return result, nil
}

// BulkDiscard marks the selected letters as discarded. Fulfilled letters are
// part of the service history and are rejected per item rather than unwound.
func (s *LetterService) BulkDiscard(ctx context.Context, letterIDs []int, adminUserID int, ipAddress string) (*models.BulkActionResult, error) {
	return s.bulkSetStage(ctx, letterIDs, models.StageDiscarded, "bulk_discard", adminUserID, ipAddress)
}

// BulkMarkStage1 returns the selected letters to the pending queue
func (s *LetterService) BulkMarkStage1(ctx context.Context, letterIDs []int, adminUserID int, ipAddress string) (*models.BulkActionResult, error) {
	return s.bulkSetStage(ctx, letterIDs, models.StageStage1Complete, "bulk_stage1", adminUserID, ipAddress)
}

func (s *LetterService) bulkSetStage(ctx context.Context, letterIDs []int, stage, actionType string, adminUserID int, ipAddress string) (*models.BulkActionResult, error) {
	letters, err := s.Repo.GetByIDs(ctx, letterIDs)
	if err != nil {
		return nil, err
	}

	result := &models.BulkActionResult{Processed: []int{}, Rejected: []models.BulkRejection{}}

	for _, letter := range letters {
		if letter.WorkflowStage == models.StageFulfilled {
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: "already fulfilled",
			})
			continue
		}

		if err := s.Repo.SetStage(ctx, letter.ID, stage); err != nil {
			result.Rejected = append(result.Rejected, models.BulkRejection{
				LetterID: letter.ID, Name: letter.DisplayName(), Reason: err.Error(),
			})
			continue
		}

		result.Processed = append(result.Processed, letter.ID)
		if letter.PersonID != nil {
			cache.InvalidateEligibility(ctx, *letter.PersonID)
		}
	}

	s.logBulkAction(ctx, adminUserID, actionType, ipAddress, result)
	return result, nil
}

// CountByStage returns letter counts per workflow stage for the dashboard
func (s *LetterService) CountByStage(ctx context.Context) (map[string]int, error) {
	return s.Repo.CountByStage(ctx)
}

func (s *LetterService) logBulkAction(ctx context.Context, adminUserID int, actionType, ipAddress string, result *models.BulkActionResult) {
	description := fmt.Sprintf("%s: %d processed, %d rejected", actionType, len(result.Processed), len(result.Rejected))
	entry := &models.AdminActionLog{
		AdminUserID: adminUserID,
		ActionType:  actionType,
		TargetType:  "letter",
		Description: description,
	}
	if ipAddress != "" {
		entry.IPAddress = &ipAddress
	}
	if err := s.ActionLogRepo.CreateActionLog(ctx, entry); err != nil {
		log.Printf("[Letters] Failed to record %s action log: %v", actionType, err)
	}
}
