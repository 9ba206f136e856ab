package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pbp-backend/internal/models"
)

type PersonPrisonRepository struct {
	DB *pgxpool.Pool
}

func NewPersonPrisonRepository(db *pgxpool.Pool) *PersonPrisonRepository {
	return &PersonPrisonRepository{DB: db}
}

func (r *PersonPrisonRepository) Create(ctx context.Context, pp *models.PersonPrison) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO person_prisons(person_id, prison_id, created_by)
		 VALUES($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		pp.PersonID, pp.PrisonID, pp.CreatedByUserID,
	).Scan(&pp.ID, &pp.CreatedAt, &pp.UpdatedAt)
}

// GetCurrent returns the most recent assignment row for a person, or nil when
// no assignment has ever been recorded. Ties on created_at break toward the
// higher id so same-instant inserts still resolve deterministically.
func (r *PersonPrisonRepository) GetCurrent(ctx context.Context, personID int) (*models.PersonPrison, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT pp.id, pp.person_id, pp.prison_id, COALESCE(pr.name, ''),
			pp.created_by, pp.created_at, pp.updated_at
		 FROM person_prisons pp
		 LEFT JOIN prisons pr ON pr.id = pp.prison_id
		 WHERE pp.person_id=$1
		 ORDER BY pp.created_at DESC, pp.id DESC
		 LIMIT 1`, personID)

	var pp models.PersonPrison
	err := row.Scan(&pp.ID, &pp.PersonID, &pp.PrisonID, &pp.PrisonName,
		&pp.CreatedByUserID, &pp.CreatedAt, &pp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pp, nil
}

// ListForPerson returns the full assignment history, newest first
func (r *PersonPrisonRepository) ListForPerson(ctx context.Context, personID int) ([]*models.PersonPrison, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT pp.id, pp.person_id, pp.prison_id, COALESCE(pr.name, ''),
			pp.created_by, pp.created_at, pp.updated_at
		 FROM person_prisons pp
		 LEFT JOIN prisons pr ON pr.id = pp.prison_id
		 WHERE pp.person_id=$1
		 ORDER BY pp.created_at DESC, pp.id DESC`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*models.PersonPrison
	for rows.Next() {
		var pp models.PersonPrison
		err := rows.Scan(&pp.ID, &pp.PersonID, &pp.PrisonID, &pp.PrisonName,
			&pp.CreatedByUserID, &pp.CreatedAt, &pp.UpdatedAt)
		if err != nil {
			return nil, err
		}
		history = append(history, &pp)
	}
	return history, rows.Err()
}

func (r *PersonPrisonRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM person_prisons WHERE id=$1`, id)
	return err
}
