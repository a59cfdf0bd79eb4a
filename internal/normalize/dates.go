package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/flyerhub/prospektor/internal/model"
)

// Validity text date patterns. The aggregator writes periods as
// "15.03.2025 - 21.03.2025" or, for the current year, "15.03. - 21.03.".
// These two are the only formats observed on the site; anything else is
// treated as unparsable rather than guessed at.
var (
	// fullDateRegex matches a day-first date with an explicit year.
	fullDateRegex = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

	// shortDateRegex matches a day-first date without a year.
	shortDateRegex = regexp.MustCompile(`\d{2}\.\d{2}\.`)

	// yearRegex finds a standalone year anywhere in the validity text,
	// used to complete short dates.
	yearRegex = regexp.MustCompile(`\d{4}`)
)

// Source date layouts, day-first as printed on the site.
const (
	fullDateLayout  = "02.01.2006"
	shortDateLayout = "02.01."
)

// Validity parses a validity-period fragment into a from/to date pair.
// It reports ok=false when the text matches neither known format; the
// caller then emits the record with null dates instead of dropping it.
//
// Short dates ("15.03. - 21.03.") carry no year: the year is taken from a
// 4-digit match anywhere in the text if present, otherwise from now.
func Validity(text string, now time.Time) (from, to model.Date, ok bool) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return model.Date{}, model.Date{}, false
	}

	fromText := strings.TrimSpace(parts[0])
	toText := strings.TrimSpace(parts[1])

	// Full format first: it is unambiguous.
	if fromMatch, toMatch := fullDateRegex.FindString(fromText), fullDateRegex.FindString(toText); fromMatch != "" && toMatch != "" {
		fromDate, err1 := parseFull(fromMatch)
		toDate, err2 := parseFull(toMatch)
		if err1 != nil || err2 != nil {
			return model.Date{}, model.Date{}, false
		}
		return fromDate, toDate, true
	}

	if fromMatch, toMatch := shortDateRegex.FindString(fromText), shortDateRegex.FindString(toText); fromMatch != "" && toMatch != "" {
		year := now.Year()
		if yearMatch := yearRegex.FindString(text); yearMatch != "" {
			// The regex guarantees four digits, so Atoi cannot fail.
			year = atoi(yearMatch)
		}

		fromDate, err1 := parseShort(fromMatch, year)
		toDate, err2 := parseShort(toMatch, year)
		if err1 != nil || err2 != nil {
			return model.Date{}, model.Date{}, false
		}
		return fromDate, toDate, true
	}

	return model.Date{}, model.Date{}, false
}

// parseFull parses a "DD.MM.YYYY" date. time.Parse rejects impossible
// dates like "99.99.2025" that the regex alone would let through.
func parseFull(s string) (model.Date, error) {
	t, err := time.Parse(fullDateLayout, s)
	if err != nil {
		return model.Date{}, err
	}
	return model.NewDate(t.Year(), t.Month(), t.Day()), nil
}

// parseShort parses a "DD.MM." date and completes it with the given year.
func parseShort(s string, year int) (model.Date, error) {
	t, err := time.Parse(shortDateLayout, s)
	if err != nil {
		return model.Date{}, err
	}
	return model.NewDate(year, t.Month(), t.Day()), nil
}

// atoi converts an all-digit string. Only called on regex matches.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
