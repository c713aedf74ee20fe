// Package period derives the calendar keys used to bucket transactions:
// day keys (YYYY-MM-DD) and month keys (YYYY-MM).
package period

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/text/language"
)

const monthLayout = "2006-01"

var (
	ErrInvalidMonthKey = errors.New("invalid month, use YYYY-MM")
	ErrInvalidDayKey   = errors.New("invalid date, use YYYY-MM-DD")
)

var dayKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DayKey formats t as YYYY-MM-DD in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// MonthKey formats t as YYYY-MM in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// ValidDayKey reports whether s has the YYYY-MM-DD shape and names a real date.
func ValidDayKey(s string) bool {
	if !dayKeyPattern.MatchString(s) {
		return false
	}

	_, err := time.Parse(time.DateOnly, s)

	return err == nil
}

// ParseMonthKey returns the first instant of the month in UTC.
func ParseMonthKey(ym string) (time.Time, error) {
	if len(ym) != len(monthLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, ym)
	}

	t, err := time.Parse(monthLayout, ym)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, ym)
	}

	return t, nil
}

// ShiftMonthKey moves ym by n months, n may be negative.
func ShiftMonthKey(ym string, n int) (string, error) {
	t, err := ParseMonthKey(ym)
	if err != nil {
		return "", err
	}

	// t is always the 1st, so AddDate never overflows into the next month.
	return t.AddDate(0, n, 0).Format(monthLayout), nil
}

// PreviousMonthKey returns the month before ym, rolling January back to the
// previous year's December.
func PreviousMonthKey(ym string) (string, error) {
	return ShiftMonthKey(ym, -1)
}

// MonthOfDayKey returns the month key of a valid day key.
func MonthOfDayKey(dayKey string) (string, bool) {
	if !ValidDayKey(dayKey) {
		return "", false
	}

	return dayKey[:len(monthLayout)], true
}

// InMonth reports whether dayKey is a valid day inside month ym.
func InMonth(dayKey, ym string) bool {
	m, ok := MonthOfDayKey(dayKey)

	return ok && m == ym
}

var (
	monthsES = [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
	monthsEN = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

// MonthLabel renders ym as "marzo de 2025" for Spanish locales and
// "March 2025" otherwise. An invalid key is returned unchanged.
func MonthLabel(ym string, tag language.Tag) string {
	t, err := ParseMonthKey(ym)
	if err != nil {
		return ym
	}

	if base, _ := tag.Base(); base.String() == "es" {
		return fmt.Sprintf("%s de %d", monthsES[t.Month()-1], t.Year())
	}

	return fmt.Sprintf("%s %d", monthsEN[t.Month()-1], t.Year())
}
