// Package dateutils parses the date formats found in household ledger
// exports and tracks the range they span.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutLedger   = "2006/01/02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats lists the layouts ParseDate tries, most frequent first.
var CommonFormats = []string{
	DateLayoutLedger,
	DateLayoutISO,
	"2006/1/2",
	"2006-1-2",
	DateLayoutFull,
	"2006/01/02 15:04:05",
	time.RFC3339,
	DateLayoutEuropean,
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate parses dateStr with the first matching layout of CommonFormats
// and returns the time together with the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// DateRange is an inclusive range of calendar days. The zero value is an
// empty range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no date has been added to the range.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() && dr.End.IsZero()
}

// Extend returns the smallest range containing dr and date.
func (dr DateRange) Extend(date time.Time) DateRange {
	if date.IsZero() {
		return dr
	}
	if dr.Start.IsZero() || date.Before(dr.Start) {
		dr.Start = date
	}
	if dr.End.IsZero() || date.After(dr.End) {
		dr.End = date
	}
	return dr
}

// Merge returns the smallest range containing both ranges.
func (dr DateRange) Merge(other DateRange) DateRange {
	return dr.Extend(other.Start).Extend(other.End)
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when empty.
func (dr DateRange) String() string {
	if dr.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", ToISODate(dr.Start), ToISODate(dr.End))
}
