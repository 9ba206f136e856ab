package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"pbp-backend/internal/mailing"
	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
	"pbp-backend/internal/timeutil"
)

// ReportService generates CSV exports and mailing-label PDFs
type ReportService struct {
	PersonService *PersonService
	PrisonRepo    *repositories.PrisonRepository
	LetterRepo    *repositories.LetterRepository
	PersonRepo    *repositories.PersonRepository
}

func NewReportService(personService *PersonService, prisonRepo *repositories.PrisonRepository,
	letterRepo *repositories.LetterRepository, personRepo *repositories.PersonRepository) *ReportService {
	return &ReportService{
		PersonService: personService,
		PrisonRepo:    prisonRepo,
		LetterRepo:    letterRepo,
		PersonRepo:    personRepo,
	}
}

// GeneratePeopleCSV exports every person with their computed fields
func (s *ReportService) GeneratePeopleCSV(ctx context.Context) ([]byte, error) {
	summaries, err := s.PersonService.ListSummaries(ctx, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"id", "inmate_number", "last_name", "middle_name", "first_name",
		"name_suffix", "status", "current_prison", "last_served",
		"eligibility", "letter_count", "package_count",
	})

	for _, sum := range summaries {
		p := sum.Person
		currentPrison := ""
		if sum.CurrentPrison != nil {
			currentPrison = sum.CurrentPrison.Name
		}
		lastServed := ""
		if sum.LastServed != nil {
			lastServed = timeutil.ToEastern(*sum.LastServed).Format(timeutil.DateLayout)
		}
		w.Write([]string{
			fmt.Sprintf("%d", p.ID),
			p.InmateNumber,
			p.LastName,
			p.MiddleName,
			p.FirstName,
			p.NameSuffix,
			p.Status,
			currentPrison,
			lastServed,
			sum.Eligibility,
			fmt.Sprintf("%d", sum.LetterCount),
			fmt.Sprintf("%d", sum.PackageCount),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ListUnresolvedAssignments returns people who carry a legacy prison
// reference from an import but have no assignment row yet, so an admin can
// assign them a facility by hand.
func (s *ReportService) ListUnresolvedAssignments(ctx context.Context) ([]*models.Person, error) {
	return s.PersonRepo.ListWithUnresolvedLegacyPrison(ctx)
}

// GeneratePrisonsCSV exports the facility list in the import column layout so
// the file round-trips.
func (s *ReportService) GeneratePrisonsCSV(ctx context.Context) ([]byte, error) {
	prisons, err := s.PrisonRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"id", "name", "prison_type", "legacy_id", "legacy_address",
		"mailing_address", "additional_mailing_headers", "mailing_city",
		"mailing_state", "mailing_zipcode", "restrictions", "notes",
	})

	for _, p := range prisons {
		w.Write([]string{
			fmt.Sprintf("%d", p.ID),
			p.Name,
			p.PrisonType,
			p.LegacyID,
			p.LegacyAddress,
			p.MailingAddress,
			p.AdditionalMailingHeaders,
			p.MailingCity,
			p.MailingState,
			p.MailingZipcode,
			p.Restrictions,
			p.Notes,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateMailingLabelsPDF renders address labels for the pending letter
// queue, three columns per row. Letters whose address block renders empty
// (no current facility, or an SCI where the processing center addresses the
// package itself) are skipped.
func (s *ReportService) GenerateMailingLabelsPDF(ctx context.Context) ([]byte, error) {
	letters, err := s.LetterRepo.List(ctx, repositories.LetterFilter{WorkflowStage: models.StageStage1Complete})
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(5, 12, 5)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "", 10)

	// Avery 5160 style sheet: 3 columns x 10 rows per page
	const (
		labelW      = 68.0
		labelH      = 25.4
		cols        = 3
		rowsPerPage = 10
		marginX     = 5.0
		marginY     = 12.0
	)

	placed := 0
	for _, letter := range letters {
		if letter.PersonID == nil {
			continue
		}
		person, err := s.PersonRepo.Get(ctx, *letter.PersonID)
		if err != nil {
			continue
		}
		prison, err := s.PersonService.CurrentPrison(ctx, person.ID)
		if err != nil {
			return nil, err
		}

		lines := mailing.AddressLines(person, prison)
		if len(lines) == 0 {
			continue
		}

		if placed%(cols*rowsPerPage) == 0 {
			pdf.AddPage()
		}
		slot := placed % (cols * rowsPerPage)
		x := marginX + float64(slot%cols)*labelW
		y := marginY + float64(slot/cols)*labelH

		pdf.SetXY(x, y)
		for _, line := range lines {
			pdf.SetX(x)
			pdf.CellFormat(labelW-4, 4, line, "", 2, "L", false, 0, "")
		}
		placed++
	}

	if placed == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
