package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pbp-backend/internal/models"
)

func testPerson() *models.Person {
	return &models.Person{
		FirstName:    "John",
		LastName:     "Doe",
		InmateNumber: "AB1234",
	}
}

func testPrison(prisonType string) *models.Prison {
	return &models.Prison{
		Name:           "Test Facility",
		PrisonType:     prisonType,
		MailingAddress: "100 Main St",
		MailingCity:    "Harrisburg",
		MailingState:   "PA",
		MailingZipcode: "17101",
	}
}

func TestAddressLinesFederal(t *testing.T) {
	lines := AddressLines(testPerson(), testPrison(models.PrisonTypeFCI))

	assert.Equal(t, []string{
		"John Doe",
		"AB1234",
		"Test Facility",
		"100 Main St",
		"Harrisburg, PA 17101",
	}, lines)
}

func TestAddressLinesAdditionalHeaders(t *testing.T) {
	prison := testPrison(models.PrisonTypeUSP)
	prison.AdditionalMailingHeaders = "PO Box 33"

	lines := AddressLines(testPerson(), prison)

	assert.Equal(t, []string{
		"John Doe",
		"AB1234",
		"Test Facility",
		"PO Box 33",
		"100 Main St",
		"Harrisburg, PA 17101",
	}, lines)
}

func TestAddressLinesStateFacilitySuppressed(t *testing.T) {
	assert.Nil(t, AddressLines(testPerson(), testPrison(models.PrisonTypeSCI)))
	assert.Empty(t, Address(testPerson(), testPrison(models.PrisonTypeSCI)))
}

func TestAddressLinesNoCurrentPrison(t *testing.T) {
	assert.Nil(t, AddressLines(testPerson(), nil))
}

func TestAddressLinesCountyOmitsInmateNumber(t *testing.T) {
	for _, prisonType := range []string{models.PrisonTypeCounty, models.PrisonTypeCity} {
		lines := AddressLines(testPerson(), testPrison(prisonType))

		assert.Equal(t, []string{
			"John Doe",
			"Test Facility",
			"100 Main St",
			"Harrisburg, PA 17101",
		}, lines)
		assert.NotContains(t, lines, "AB1234")
	}
}

func TestAddress(t *testing.T) {
	got := Address(testPerson(), testPrison(models.PrisonTypeFCI))
	assert.Equal(t, "John Doe\nAB1234\nTest Facility\n100 Main St\nHarrisburg, PA 17101", got)
}

func TestPrisonAddress(t *testing.T) {
	prison := testPrison(models.PrisonTypeCounty)
	assert.Equal(t, "Test Facility\n100 Main St\nHarrisburg, PA 17101", PrisonAddress(prison))

	prison.AdditionalMailingHeaders = "Attn: Mailroom"
	assert.Equal(t, "Test Facility\nAttn: Mailroom\n100 Main St\nHarrisburg, PA 17101", PrisonAddress(prison))

	prison.MailingAddress = ""
	assert.Empty(t, PrisonAddress(prison))
}
