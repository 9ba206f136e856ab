package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pbp-backend/internal/models"
)

type LetterRepository struct {
	DB *pgxpool.Pool
}

func NewLetterRepository(db *pgxpool.Pool) *LetterRepository {
	return &LetterRepository{DB: db}
}

// LetterFilter narrows List results. Zero values mean "no filter".
type LetterFilter struct {
	PersonID      int
	WorkflowStage string
	Limit         int
	Offset        int
}

const letterSelect = `SELECT l.id, l.person_id, l.postmark_date, l.stage1_complete_date,
	l.fulfilled_date, l.counts_against_last_served, l.prison_sent_to,
	l.workflow_stage, l.notes, l.created_by, l.created_at, l.updated_at,
	COALESCE(p.last_name, ''), COALESCE(p.first_name, ''), COALESCE(p.inmate_number, ''),
	COALESCE(pr.name, '')
	FROM letters l
	LEFT JOIN people p ON p.id = l.person_id
	LEFT JOIN prisons pr ON pr.id = l.prison_sent_to`

func scanLetter(row interface{ Scan(...any) error }) (*models.Letter, error) {
	var l models.Letter
	err := row.Scan(&l.ID, &l.PersonID, &l.PostmarkDate, &l.Stage1CompleteDate,
		&l.FulfilledDate, &l.CountsAgainstLastServed, &l.PrisonSentToID,
		&l.WorkflowStage, &l.Notes, &l.CreatedByUserID, &l.CreatedAt, &l.UpdatedAt,
		&l.PersonLastName, &l.PersonFirstName, &l.PersonInmateNum, &l.PrisonSentToName)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LetterRepository) Create(ctx context.Context, l *models.Letter) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO letters(person_id, postmark_date, counts_against_last_served, notes, created_by)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, stage1_complete_date, workflow_stage, created_at, updated_at`,
		l.PersonID, l.PostmarkDate, l.CountsAgainstLastServed, l.Notes, l.CreatedByUserID,
	).Scan(&l.ID, &l.Stage1CompleteDate, &l.WorkflowStage, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LetterRepository) Get(ctx context.Context, id int) (*models.Letter, error) {
	row := r.DB.QueryRow(ctx, letterSelect+` WHERE l.id=$1`, id)
	return scanLetter(row)
}

func (r *LetterRepository) List(ctx context.Context, f LetterFilter) ([]*models.Letter, error) {
	query := letterSelect
	args := []any{}
	where := ""
	if f.PersonID != 0 {
		args = append(args, f.PersonID)
		where = fmt.Sprintf(" WHERE l.person_id=$%d", len(args))
	}
	if f.WorkflowStage != "" {
		args = append(args, f.WorkflowStage)
		if where == "" {
			where = fmt.Sprintf(" WHERE l.workflow_stage=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND l.workflow_stage=$%d", len(args))
		}
	}
	query += where + ` ORDER BY l.created_at DESC, l.id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []*models.Letter
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}
	return letters, rows.Err()
}

// ListForPerson returns every letter logged for a person, newest first
func (r *LetterRepository) ListForPerson(ctx context.Context, personID int) ([]*models.Letter, error) {
	return r.List(ctx, LetterFilter{PersonID: personID})
}

// GetByIDs fetches the given letters with their display joins. Missing ids are
// simply absent from the result.
func (r *LetterRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Letter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx, letterSelect+` WHERE l.id = ANY($1) ORDER BY l.id ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []*models.Letter
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}
	return letters, rows.Err()
}

func (r *LetterRepository) Update(ctx context.Context, l *models.Letter) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE letters SET postmark_date=$1, counts_against_last_served=$2,
			workflow_stage=$3, notes=$4, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$5`,
		l.PostmarkDate, l.CountsAgainstLastServed, l.WorkflowStage, l.Notes, l.ID)
	return err
}

// MarkFulfilled stamps a letter as sent: the fulfillment time and the facility
// it shipped to are frozen on the row so later transfers don't rewrite history.
func (r *LetterRepository) MarkFulfilled(ctx context.Context, letterID int, fulfilledAt time.Time, prisonID *int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE letters SET workflow_stage=$1, fulfilled_date=$2, prison_sent_to=$3,
			updated_at=CURRENT_TIMESTAMP
		 WHERE id=$4`,
		models.StageFulfilled, fulfilledAt, prisonID, letterID)
	return err
}

// SetStage moves a letter to the given workflow stage
func (r *LetterRepository) SetStage(ctx context.Context, letterID int, stage string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE letters SET workflow_stage=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		stage, letterID)
	return err
}

func (r *LetterRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM letters WHERE id=$1`, id)
	return err
}

// CountByStage returns letter counts grouped by workflow stage
func (r *LetterRepository) CountByStage(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT workflow_stage, COUNT(*) FROM letters GROUP BY workflow_stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[stage] = n
	}
	return counts, rows.Err()
}
