package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbp-backend/internal/models"
)

func TestParsePeopleCSV(t *testing.T) {
	input := strings.Join([]string{
		"inmate_number,last_name,first_name,status,legacy_prison_id,legacy_last_served_date",
		"AB-1234,Doe,John,,P042,2025-11-03",
		"CD5678,Smith,Jane,lifer,,",
	}, "\n")

	rows, err := ParsePeopleCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "AB-1234", rows[0].InmateNumber)
	assert.Equal(t, "Doe", rows[0].LastName)
	assert.Equal(t, "John", rows[0].FirstName)
	assert.Equal(t, "P042", rows[0].LegacyPrisonID)
	assert.Equal(t, "2025-11-03", rows[0].LegacyLastServed)

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "lifer", rows[1].Status)
	assert.Empty(t, rows[1].LegacyPrisonID)
}

func TestParsePeopleCSVHeaderHandling(t *testing.T) {
	// Headers match case-insensitively, and spreadsheet columns the import
	// does not recognize are skipped rather than rejected.
	input := strings.Join([]string{
		" Last_Name ,bogus_column,FIRST_NAME",
		"Doe,ignore me,John",
	}, "\n")

	rows, err := ParsePeopleCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Doe", rows[0].LastName)
	assert.Equal(t, "John", rows[0].FirstName)
}

func TestParsePeopleCSVTrimsValues(t *testing.T) {
	input := "last_name,first_name\n  Doe  , John \n"

	rows, err := ParsePeopleCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Doe", rows[0].LastName)
	assert.Equal(t, "John", rows[0].FirstName)
}

func TestParsePeopleCSVRaggedRows(t *testing.T) {
	// Short rows only populate the columns they carry.
	input := "last_name,first_name,status\nDoe\n"

	rows, err := ParsePeopleCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Doe", rows[0].LastName)
	assert.Empty(t, rows[0].FirstName)
}

func TestParsePeopleCSVNoKnownColumns(t *testing.T) {
	_, err := ParsePeopleCSV(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}

func TestParsePeopleCSVEmptyFile(t *testing.T) {
	_, err := ParsePeopleCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestImportPeopleRecordsLegacyReference(t *testing.T) {
	people := newFakePersonStore()
	prisons := newFakePrisonStore(&models.Prison{ID: 3, Name: "Test County Jail", LegacyID: "P042"})
	assignments := newFakeAssignmentStore()
	svc := NewCSVImportService(people, prisons, assignments)

	input := strings.Join([]string{
		"inmate_number,last_name,first_name,status,legacy_prison_id",
		"AB-1234,Doe,John,,P042",
	}, "\n")

	result, err := svc.ImportPeople(context.Background(), strings.NewReader(input), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)

	person, err := people.GetByInmateNumber(context.Background(), "AB1234")
	require.NoError(t, err)
	require.NotNil(t, person.LegacyPrisonID)
	assert.Equal(t, "P042", *person.LegacyPrisonID)

	current, err := assignments.GetCurrent(context.Background(), person.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 3, *current.PrisonID)
}

func TestImportPeopleUnknownLegacyPrisonFailsRow(t *testing.T) {
	people := newFakePersonStore()
	svc := NewCSVImportService(people, newFakePrisonStore(), newFakeAssignmentStore())

	input := strings.Join([]string{
		"inmate_number,last_name,first_name,legacy_prison_id",
		"AB-1234,Doe,John,P999",
		"CD5678,Smith,Jane,",
	}, "\n")

	result, err := svc.ImportPeople(context.Background(), strings.NewReader(input), 1)
	require.NoError(t, err)

	// The bad reference fails its own row and nothing else
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Contains(t, result.Errors[0].Message, "P999")
	_, err = people.GetByInmateNumber(context.Background(), "AB1234")
	assert.Error(t, err)
}

func TestImportPeopleAssignmentFailureCountsRowOnce(t *testing.T) {
	people := newFakePersonStore()
	prisons := newFakePrisonStore(&models.Prison{ID: 3, Name: "Test County Jail", LegacyID: "P042"})
	assignments := newFakeAssignmentStore()
	assignments.createErr = errors.New("insert failed")
	svc := NewCSVImportService(people, prisons, assignments)

	input := strings.Join([]string{
		"inmate_number,last_name,first_name,legacy_prison_id",
		"AB-1234,Doe,John,P042",
	}, "\n")

	result, err := svc.ImportPeople(context.Background(), strings.NewReader(input), 1)
	require.NoError(t, err)

	// The row lands in Errors only, never in Created as well
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "insert failed")

	// The person row survives with its legacy reference so the
	// unresolved-assignment report can surface it
	person, err := people.GetByInmateNumber(context.Background(), "AB1234")
	require.NoError(t, err)
	require.NotNil(t, person.LegacyPrisonID)
	assert.Equal(t, "P042", *person.LegacyPrisonID)
}

func TestParsePrisonsCSV(t *testing.T) {
	input := strings.Join([]string{
		"name,prison_type,legacy_id,mailing_address,mailing_city,mailing_state,mailing_zipcode,restrictions",
		"Test County Jail,county,P042,100 Main St,Harrisburg,PA,17101,no hardcovers",
	}, "\n")

	rows, err := ParsePrisonsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, "Test County Jail", row.Name)
	assert.Equal(t, "county", row.PrisonType)
	assert.Equal(t, "P042", row.LegacyID)
	assert.Equal(t, "100 Main St", row.MailingAddress)
	assert.Equal(t, "Harrisburg", row.MailingCity)
	assert.Equal(t, "PA", row.MailingState)
	assert.Equal(t, "17101", row.MailingZipcode)
	assert.Equal(t, "no hardcovers", row.Restrictions)
}

func TestParsePrisonsCSVQuotedFields(t *testing.T) {
	input := "name,prison_type,additional_mailing_headers\n\"Smith, John Detention Center\",fdc,\"Attn: Mailroom, Bldg 2\"\n"

	rows, err := ParsePrisonsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Smith, John Detention Center", rows[0].Name)
	assert.Equal(t, "Attn: Mailroom, Bldg 2", rows[0].AdditionalMailingHeaders)
}
