package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pbp-backend/internal/models"
)

type PrisonRepository struct {
	DB *pgxpool.Pool
}

func NewPrisonRepository(db *pgxpool.Pool) *PrisonRepository {
	return &PrisonRepository{DB: db}
}

const prisonColumns = `id, name, prison_type, additional_mailing_headers, mailing_address,
	mailing_city, mailing_state, mailing_zipcode, legacy_address, restrictions,
	legacy_id, notes, created_by, modified_by, created_at, updated_at`

func scanPrison(row interface{ Scan(...any) error }) (*models.Prison, error) {
	var p models.Prison
	err := row.Scan(&p.ID, &p.Name, &p.PrisonType, &p.AdditionalMailingHeaders,
		&p.MailingAddress, &p.MailingCity, &p.MailingState, &p.MailingZipcode,
		&p.LegacyAddress, &p.Restrictions, &p.LegacyID, &p.Notes,
		&p.CreatedByUserID, &p.ModifiedByUserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrisonRepository) Create(ctx context.Context, p *models.Prison) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO prisons(name, prison_type, additional_mailing_headers, mailing_address,
			mailing_city, mailing_state, mailing_zipcode, legacy_address, restrictions,
			legacy_id, notes, created_by, modified_by)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.PrisonType, p.AdditionalMailingHeaders, p.MailingAddress,
		p.MailingCity, p.MailingState, p.MailingZipcode, p.LegacyAddress,
		p.Restrictions, p.LegacyID, p.Notes, p.CreatedByUserID, p.ModifiedByUserID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PrisonRepository) Get(ctx context.Context, id int) (*models.Prison, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+prisonColumns+` FROM prisons WHERE id=$1`, id)
	return scanPrison(row)
}

// GetByLegacyID resolves a prison by its identifier in the legacy database.
func (r *PrisonRepository) GetByLegacyID(ctx context.Context, legacyID string) (*models.Prison, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+prisonColumns+` FROM prisons WHERE legacy_id=$1`, legacyID)
	return scanPrison(row)
}

// List returns all prisons ordered by name
func (r *PrisonRepository) List(ctx context.Context) ([]*models.Prison, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+prisonColumns+` FROM prisons ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prisons []*models.Prison
	for rows.Next() {
		p, err := scanPrison(rows)
		if err != nil {
			return nil, err
		}
		prisons = append(prisons, p)
	}
	return prisons, rows.Err()
}

func (r *PrisonRepository) Update(ctx context.Context, p *models.Prison) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE prisons SET name=$1, prison_type=$2, additional_mailing_headers=$3,
			mailing_address=$4, mailing_city=$5, mailing_state=$6, mailing_zipcode=$7,
			restrictions=$8, legacy_id=$9, notes=$10, modified_by=$11,
			updated_at=CURRENT_TIMESTAMP
		 WHERE id=$12`,
		p.Name, p.PrisonType, p.AdditionalMailingHeaders, p.MailingAddress,
		p.MailingCity, p.MailingState, p.MailingZipcode, p.Restrictions,
		p.LegacyID, p.Notes, p.ModifiedByUserID, p.ID)
	return err
}

func (r *PrisonRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM prisons WHERE id=$1`, id)
	return err
}

// CountResidents returns how many people currently resolve to this prison.
func (r *PrisonRepository) CountResidents(ctx context.Context, prisonID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM (
			SELECT DISTINCT ON (person_id) person_id, prison_id
			FROM person_prisons
			ORDER BY person_id, created_at DESC, id DESC
		 ) current WHERE prison_id=$1`, prisonID).Scan(&count)
	return count, err
}
