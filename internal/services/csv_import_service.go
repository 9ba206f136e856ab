package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"pbp-backend/internal/cache"
	"pbp-backend/internal/metrics"
	"pbp-backend/internal/models"
	"pbp-backend/internal/timeutil"
)

// PersonCSVRow is one parsed line of a people import file
type PersonCSVRow struct {
	Line             int // 1-based line number in the file, for error reporting
	InmateNumber     string
	LastName         string
	MiddleName       string
	FirstName        string
	NameSuffix       string
	Status           string
	LegacyPrisonID   string
	LegacyLastServed string
}

// PrisonCSVRow is one parsed line of a prisons import file
type PrisonCSVRow struct {
	Line                     int
	Name                     string
	PrisonType               string
	LegacyID                 string
	LegacyAddress            string
	MailingAddress           string
	AdditionalMailingHeaders string
	MailingCity              string
	MailingState             string
	MailingZipcode           string
	Restrictions             string
	Notes                    string
}

// RowError reports why a single import row was not applied
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV import. Errors lists every row that failed;
// failed rows never abort the rows around them.
type ImportResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

type CSVImportService struct {
	PersonRepo       PersonStore
	PrisonRepo       PrisonStore
	PersonPrisonRepo AssignmentStore
}

func NewCSVImportService(personRepo PersonStore, prisonRepo PrisonStore,
	personPrisonRepo AssignmentStore) *CSVImportService {
	return &CSVImportService{
		PersonRepo:       personRepo,
		PrisonRepo:       prisonRepo,
		PersonPrisonRepo: personPrisonRepo,
	}
}

// personImportColumns maps header names to row field setters. Header matching
// is case-insensitive and ignores surrounding whitespace.
var personImportColumns = map[string]func(*PersonCSVRow, string){
	"inmate_number":           func(r *PersonCSVRow, v string) { r.InmateNumber = v },
	"last_name":               func(r *PersonCSVRow, v string) { r.LastName = v },
	"middle_name":             func(r *PersonCSVRow, v string) { r.MiddleName = v },
	"first_name":              func(r *PersonCSVRow, v string) { r.FirstName = v },
	"name_suffix":             func(r *PersonCSVRow, v string) { r.NameSuffix = v },
	"status":                  func(r *PersonCSVRow, v string) { r.Status = v },
	"legacy_prison_id":        func(r *PersonCSVRow, v string) { r.LegacyPrisonID = v },
	"legacy_last_served_date": func(r *PersonCSVRow, v string) { r.LegacyLastServed = v },
}

var prisonImportColumns = map[string]func(*PrisonCSVRow, string){
	"name":                       func(r *PrisonCSVRow, v string) { r.Name = v },
	"prison_type":                func(r *PrisonCSVRow, v string) { r.PrisonType = v },
	"legacy_id":                  func(r *PrisonCSVRow, v string) { r.LegacyID = v },
	"legacy_address":             func(r *PrisonCSVRow, v string) { r.LegacyAddress = v },
	"mailing_address":            func(r *PrisonCSVRow, v string) { r.MailingAddress = v },
	"additional_mailing_headers": func(r *PrisonCSVRow, v string) { r.AdditionalMailingHeaders = v },
	"mailing_city":               func(r *PrisonCSVRow, v string) { r.MailingCity = v },
	"mailing_state":              func(r *PrisonCSVRow, v string) { r.MailingState = v },
	"mailing_zipcode":            func(r *PrisonCSVRow, v string) { r.MailingZipcode = v },
	"restrictions":               func(r *PrisonCSVRow, v string) { r.Restrictions = v },
	"notes":                      func(r *PrisonCSVRow, v string) { r.Notes = v },
}

// ParsePeopleCSV reads a people import file. The first record must be a
// header naming the columns; unknown columns are ignored so exports from the
// old spreadsheet can be fed back in unchanged.
func ParsePeopleCSV(r io.Reader) ([]PersonCSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	setters := make([]func(*PersonCSVRow, string), len(header))
	known := 0
	for i, col := range header {
		if set, ok := personImportColumns[strings.ToLower(strings.TrimSpace(col))]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("no recognized columns in header: %v", header)
	}

	var rows []PersonCSVRow
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := PersonCSVRow{Line: line}
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, strings.TrimSpace(value))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParsePrisonsCSV reads a prisons import file
func ParsePrisonsCSV(r io.Reader) ([]PrisonCSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	setters := make([]func(*PrisonCSVRow, string), len(header))
	known := 0
	for i, col := range header {
		if set, ok := prisonImportColumns[strings.ToLower(strings.TrimSpace(col))]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("no recognized columns in header: %v", header)
	}

	var rows []PrisonCSVRow
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := PrisonCSVRow{Line: line}
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, strings.TrimSpace(value))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportPeople applies a people import. Rows upsert by normalized inmate
// number. A row naming a legacy_prison_id that no prison carries fails with
// its own error; the rest of the file still imports.
func (s *CSVImportService) ImportPeople(ctx context.Context, r io.Reader, userID int) (*ImportResult, error) {
	rows, err := ParsePeopleCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []RowError{}}
	for _, row := range rows {
		if err := s.importPersonRow(ctx, row, userID, result); err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.Line, Message: err.Error()})
			metrics.CSVImportRowsTotal.WithLabelValues("people", "error").Inc()
		} else {
			metrics.CSVImportRowsTotal.WithLabelValues("people", "ok").Inc()
		}
	}

	log.Printf("[CSV] People import: %d created, %d updated, %d errors",
		result.Created, result.Updated, len(result.Errors))
	return result, nil
}

func (s *CSVImportService) importPersonRow(ctx context.Context, row PersonCSVRow, userID int, result *ImportResult) error {
	if row.LastName == "" || row.FirstName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !models.ValidStatus(row.Status) {
		return fmt.Errorf("invalid status: %s", row.Status)
	}

	// Resolve the legacy prison reference before touching the person row so a
	// bad reference leaves nothing half-imported.
	var prison *models.Prison
	if row.LegacyPrisonID != "" {
		p, err := s.PrisonRepo.GetByLegacyID(ctx, row.LegacyPrisonID)
		if err != nil {
			return fmt.Errorf("no prison with legacy id %q", row.LegacyPrisonID)
		}
		prison = p
	}

	person := &models.Person{
		InmateNumber:    models.NormalizeInmateNumber(row.InmateNumber),
		LastName:        row.LastName,
		MiddleName:      row.MiddleName,
		FirstName:       row.FirstName,
		NameSuffix:      row.NameSuffix,
		Status:          row.Status,
		CreatedByUserID: &userID,
	}
	if row.LegacyPrisonID != "" {
		person.LegacyPrisonID = &row.LegacyPrisonID
	}

	if row.LegacyLastServed != "" {
		served, err := timeutil.ParseDate(row.LegacyLastServed)
		if err != nil {
			return fmt.Errorf("invalid legacy_last_served_date: %s", row.LegacyLastServed)
		}
		person.LegacyLastServedDate = &served
	}

	created := true
	if person.InmateNumber != "" {
		if existing, err := s.PersonRepo.GetByInmateNumber(ctx, person.InmateNumber); err == nil {
			// Upsert: keep existing notes and legacy dates, refresh names/status
			existing.LastName = person.LastName
			existing.MiddleName = person.MiddleName
			existing.FirstName = person.FirstName
			existing.NameSuffix = person.NameSuffix
			existing.Status = person.Status
			if err := s.PersonRepo.Update(ctx, existing); err != nil {
				return err
			}
			person = existing
			created = false
		}
	}

	if created {
		if err := s.PersonRepo.Create(ctx, person); err != nil {
			return err
		}
	}

	// A failure past this point still counts the row as an error, not a
	// create: the person row keeps its legacy_prison_id with no assignment,
	// which is what the unresolved-assignment report surfaces for cleanup.
	if prison != nil {
		current, err := s.PersonPrisonRepo.GetCurrent(ctx, person.ID)
		if err != nil {
			return err
		}
		// Only append an assignment when it changes where the person resolves
		if current == nil || current.PrisonID == nil || *current.PrisonID != prison.ID {
			pp := &models.PersonPrison{PersonID: person.ID, PrisonID: &prison.ID, CreatedByUserID: &userID}
			if err := s.PersonPrisonRepo.Create(ctx, pp); err != nil {
				return err
			}
			cache.InvalidateEligibility(ctx, person.ID)
		}
	}

	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

// ImportPrisons applies a prisons import, upserting by legacy_id when present
// and creating a new facility otherwise.
func (s *CSVImportService) ImportPrisons(ctx context.Context, r io.Reader, userID int) (*ImportResult, error) {
	rows, err := ParsePrisonsCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []RowError{}}
	for _, row := range rows {
		if err := s.importPrisonRow(ctx, row, userID, result); err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.Line, Message: err.Error()})
			metrics.CSVImportRowsTotal.WithLabelValues("prisons", "error").Inc()
		} else {
			metrics.CSVImportRowsTotal.WithLabelValues("prisons", "ok").Inc()
		}
	}

	log.Printf("[CSV] Prisons import: %d created, %d updated, %d errors",
		result.Created, result.Updated, len(result.Errors))
	return result, nil
}

func (s *CSVImportService) importPrisonRow(ctx context.Context, row PrisonCSVRow, userID int, result *ImportResult) error {
	if row.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !models.ValidPrisonType(row.PrisonType) {
		return fmt.Errorf("invalid prison type: %s", row.PrisonType)
	}

	var existing *models.Prison
	if row.LegacyID != "" {
		if p, err := s.PrisonRepo.GetByLegacyID(ctx, row.LegacyID); err == nil {
			existing = p
		}
	}

	state := row.MailingState
	if state == "" {
		state = "PA"
	}

	if existing != nil {
		existing.Name = row.Name
		existing.PrisonType = row.PrisonType
		existing.AdditionalMailingHeaders = row.AdditionalMailingHeaders
		existing.MailingAddress = row.MailingAddress
		existing.MailingCity = row.MailingCity
		existing.MailingState = state
		existing.MailingZipcode = row.MailingZipcode
		existing.Restrictions = row.Restrictions
		existing.Notes = row.Notes
		existing.ModifiedByUserID = &userID
		if err := s.PrisonRepo.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	prison := &models.Prison{
		Name:                     row.Name,
		PrisonType:               row.PrisonType,
		AdditionalMailingHeaders: row.AdditionalMailingHeaders,
		MailingAddress:           row.MailingAddress,
		MailingCity:              row.MailingCity,
		MailingState:             state,
		MailingZipcode:           row.MailingZipcode,
		LegacyAddress:            row.LegacyAddress,
		Restrictions:             row.Restrictions,
		LegacyID:                 row.LegacyID,
		Notes:                    row.Notes,
		CreatedByUserID:          &userID,
		ModifiedByUserID:         &userID,
	}
	if err := s.PrisonRepo.Create(ctx, prison); err != nil {
		return err
	}
	result.Created++
	return nil
}
