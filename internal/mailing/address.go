// Package mailing builds outbound mailing-address blocks for packages.
package mailing

import (
	"fmt"
	"strings"

	"pbp-backend/internal/models"
)

// AddressLines renders the address block for sending a package to person at
// prison, one line per element. It returns nil when no address should be
// printed:
//   - no current prison on file
//   - SCI facilities (all state mail routes through the central processing
//     center, which supplies its own addressing)
//
// County and city facilities get the block without the inmate number; IDs at
// those facilities are often locally constructed and misdirect mail.
func AddressLines(person *models.Person, prison *models.Prison) []string {
	if prison == nil || prison.PrisonType == models.PrisonTypeSCI {
		return nil
	}

	name := strings.TrimSpace(person.FirstName + " " + person.LastName)
	cityLine := fmt.Sprintf("%s, %s %s", prison.MailingCity, prison.MailingState, prison.MailingZipcode)

	if prison.PrisonType == models.PrisonTypeCounty || prison.PrisonType == models.PrisonTypeCity {
		return []string{name, prison.Name, prison.MailingAddress, cityLine}
	}

	lines := []string{name, person.InmateNumber, prison.Name}
	if prison.AdditionalMailingHeaders != "" {
		lines = append(lines, prison.AdditionalMailingHeaders)
	}
	return append(lines, prison.MailingAddress, cityLine)
}

// Address renders the block as a single newline-joined string, or "" when no
// address should be printed.
func Address(person *models.Person, prison *models.Prison) string {
	return strings.Join(AddressLines(person, prison), "\n")
}

// PrisonAddress renders a facility's own mailing address for the prison
// listing: name, optional extra header, street, "City, ST zip".
func PrisonAddress(prison *models.Prison) string {
	if prison.MailingAddress == "" {
		return ""
	}
	lines := []string{prison.Name}
	if prison.AdditionalMailingHeaders != "" {
		lines = append(lines, prison.AdditionalMailingHeaders)
	}
	lines = append(lines, prison.MailingAddress,
		fmt.Sprintf("%s, %s %s", prison.MailingCity, prison.MailingState, prison.MailingZipcode))
	return strings.Join(lines, "\n")
}
