package timeutil

import (
	"time"
)

// Eastern is the program's local timezone; the program operates out of
// Pennsylvania and all postmark/fulfillment dates are recorded in ET.
var Eastern *time.Location

func init() {
	var err error
	Eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: fixed EST offset if tzdata is unavailable
		Eastern = time.FixedZone("EST", -5*60*60)
	}
}

// Now returns the current time in ET
func Now() time.Time {
	return time.Now().In(Eastern)
}

// ToEastern converts any time to ET
func ToEastern(t time.Time) time.Time {
	return t.In(Eastern)
}

// ParseDate parses a YYYY-MM-DD date in ET
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Eastern)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	// DisplayDateLayout renders dates the way the eligibility status strings
	// show them: "March 4, 2026"
	DisplayDateLayout = "January 2, 2006"
)
