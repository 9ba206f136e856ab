package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pbp-backend/internal/models"
)

type PersonRepository struct {
	DB *pgxpool.Pool
}

func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{DB: db}
}

const personColumns = `id, COALESCE(inmate_number, ''), last_name, middle_name, first_name,
	name_suffix, status, notes, legacy_prison_id, legacy_last_served_date,
	created_by, created_at, updated_at`

func scanPerson(row interface{ Scan(...any) error }) (*models.Person, error) {
	var p models.Person
	err := row.Scan(&p.ID, &p.InmateNumber, &p.LastName, &p.MiddleName, &p.FirstName,
		&p.NameSuffix, &p.Status, &p.Notes, &p.LegacyPrisonID, &p.LegacyLastServedDate,
		&p.CreatedByUserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonRepository) Create(ctx context.Context, p *models.Person) error {
	// Empty inmate numbers are stored as NULL so the unique index allows
	// multiple people with unknown numbers.
	var inmateNum *string
	if p.InmateNumber != "" {
		inmateNum = &p.InmateNumber
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO people(inmate_number, last_name, middle_name, first_name, name_suffix,
			status, notes, legacy_prison_id, legacy_last_served_date, created_by)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		inmateNum, p.LastName, p.MiddleName, p.FirstName, p.NameSuffix,
		p.Status, p.Notes, p.LegacyPrisonID, p.LegacyLastServedDate, p.CreatedByUserID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PersonRepository) Get(ctx context.Context, id int) (*models.Person, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+personColumns+` FROM people WHERE id=$1`, id)
	return scanPerson(row)
}

func (r *PersonRepository) GetByInmateNumber(ctx context.Context, inmateNumber string) (*models.Person, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+personColumns+` FROM people WHERE inmate_number=$1`, inmateNumber)
	return scanPerson(row)
}

// List returns people, optionally filtered by a case-insensitive search over
// name and inmate number.
func (r *PersonRepository) List(ctx context.Context, search string) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people`
	args := []any{}
	if search != "" {
		query += ` WHERE last_name ILIKE '%' || $1 || '%'
			OR first_name ILIKE '%' || $1 || '%'
			OR inmate_number ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *PersonRepository) Update(ctx context.Context, p *models.Person) error {
	var inmateNum *string
	if p.InmateNumber != "" {
		inmateNum = &p.InmateNumber
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE people SET inmate_number=$1, last_name=$2, middle_name=$3, first_name=$4,
			name_suffix=$5, status=$6, notes=$7, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$8`,
		inmateNum, p.LastName, p.MiddleName, p.FirstName, p.NameSuffix,
		p.Status, p.Notes, p.ID)
	return err
}

func (r *PersonRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM people WHERE id=$1`, id)
	return err
}

// ListWithUnresolvedLegacyPrison returns people imported with a legacy prison
// reference that has not yet been converted to an assignment row.
func (r *PersonRepository) ListWithUnresolvedLegacyPrison(ctx context.Context) ([]*models.Person, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+personColumns+` FROM people p
		 WHERE legacy_prison_id IS NOT NULL
		   AND NOT EXISTS (SELECT 1 FROM person_prisons pp WHERE pp.person_id = p.id)
		 ORDER BY last_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}
