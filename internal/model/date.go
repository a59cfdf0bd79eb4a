package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates (ISO 8601 date).
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
// The zero value is the null date, which serializes as JSON null.
//
// Design decision: We use a dedicated type rather than *time.Time because:
//  1. Value semantics make records comparable and easy to test
//  2. The output contract requires "YYYY-MM-DD" or null, not a timestamp
//  3. A Valid flag is clearer than nil-pointer checks at every use site
type Date struct {
	// Time holds the date at midnight UTC. Only the date portion is
	// meaningful; the clock fields are always zero.
	Time time.Time

	// Valid reports whether the date is set. When false, the date
	// serializes as null.
	Valid bool
}

// NewDate returns a valid Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{
		Time:  time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

// ParseDate parses a date in DateLayout format ("2006-01-02").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t, Valid: true}, nil
}

// String returns the date in DateLayout format, or "null" for the null date.
func (d Date) String() string {
	if !d.Valid {
		return "null"
	}
	return d.Time.Format(DateLayout)
}

// Equal reports whether two dates represent the same calendar day.
// Two null dates are equal.
func (d Date) Equal(other Date) bool {
	if d.Valid != other.Valid {
		return false
	}
	if !d.Valid {
		return true
	}
	return d.Time.Equal(other.Time)
}

// MarshalJSON implements json.Marshaler.
// Valid dates serialize as "YYYY-MM-DD"; the null date serializes as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", d.Time.Format(DateLayout))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
// Accepts "YYYY-MM-DD" strings and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected quoted string or null", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", s, err)
	}
	*d = parsed
	return nil
}
