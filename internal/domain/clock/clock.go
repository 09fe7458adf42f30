// Package clock provides the business-local time. The shop operates on
// Korea Standard Time; deployment hosts do not. Every persisted timestamp
// goes through this package so join dates, order dates, and order ids stay
// consistent no matter where the server runs.
package clock

import "time"

// KST is a fixed UTC+9 zone. time.LoadLocation is deliberately avoided so
// the result does not depend on the host's tzdata.
var KST = time.FixedZone("KST", 9*60*60)

// DateLayout is the persisted date format for the spreadsheet.
const DateLayout = "2006-01-02"

// Now returns the current instant expressed in KST, derived from the
// explicit UTC clock rather than ambient local time.
func Now() time.Time {
	return time.Now().UTC().In(KST)
}

// Today returns today's date string in KST.
func Today() string {
	return Now().Format(DateLayout)
}
