package deck

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ResultDateLayout is the day/month/two-digit-year format of result rows.
	ResultDateLayout = "2/1/06"
	// CanonicalDateLayout is how dates are written to the canonical table.
	CanonicalDateLayout = "2006-01-02"
	// searchDateLayout is the date_start/date_end format of the search form.
	searchDateLayout = "02/01/2006"
)

// ParseResultDate parses a result row date such as "20/08/94".
// Two-digit years 69-99 map to 1969-1999 and 00-68 to 2000-2068.
func ParseResultDate(text string) (time.Time, error) {
	t, err := time.Parse(ResultDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing result date %q: %w", text, err)
	}
	return t, nil
}

// ParseCanonicalDate parses a date written by FormatCanonicalDate.
func ParseCanonicalDate(text string) (time.Time, error) {
	t, err := time.Parse(CanonicalDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", text, err)
	}
	return t, nil
}

// FormatCanonicalDate renders a calendar date as YYYY-MM-DD.
func FormatCanonicalDate(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}

// YearRange returns the first and last day of year in search form format.
func YearRange(year int) (start, end string) {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return first.Format(searchDateLayout), last.Format(searchDateLayout)
}
