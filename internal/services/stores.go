package services

import (
	"context"
	"time"

	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
)

// Store interfaces are the repository views the services depend on. The
// pgx-backed repository structs satisfy them; tests substitute in-memory
// stand-ins.

type LetterStore interface {
	Create(ctx context.Context, l *models.Letter) error
	Get(ctx context.Context, id int) (*models.Letter, error)
	List(ctx context.Context, f repositories.LetterFilter) ([]*models.Letter, error)
	GetByIDs(ctx context.Context, ids []int) ([]*models.Letter, error)
	Update(ctx context.Context, l *models.Letter) error
	Delete(ctx context.Context, id int) error
	MarkFulfilled(ctx context.Context, letterID int, fulfilledAt time.Time, prisonID *int) error
	SetStage(ctx context.Context, letterID int, stage string) error
	CountByStage(ctx context.Context) (map[string]int, error)
}

type PersonStore interface {
	Create(ctx context.Context, p *models.Person) error
	Get(ctx context.Context, id int) (*models.Person, error)
	GetByInmateNumber(ctx context.Context, inmateNumber string) (*models.Person, error)
	Update(ctx context.Context, p *models.Person) error
}

type PrisonStore interface {
	Create(ctx context.Context, p *models.Prison) error
	GetByLegacyID(ctx context.Context, legacyID string) (*models.Prison, error)
	Update(ctx context.Context, p *models.Prison) error
}

type AssignmentStore interface {
	Create(ctx context.Context, pp *models.PersonPrison) error
	GetCurrent(ctx context.Context, personID int) (*models.PersonPrison, error)
}

type ActionLogStore interface {
	CreateActionLog(ctx context.Context, entry *models.AdminActionLog) error
}
