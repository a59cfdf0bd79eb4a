package model

import (
	"encoding/json"
	"testing"
	"time"
)

// TestDate tests calendar date construction and formatting.
func TestDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date formats as ISO 8601", func(t *testing.T) {
		t.Parallel()

		d := NewDate(2025, time.March, 15)
		if got := d.String(); got != "2025-03-15" {
			t.Errorf("expected 2025-03-15, got %q", got)
		}
	})

	t.Run("null date formats as null", func(t *testing.T) {
		t.Parallel()

		var d Date
		if got := d.String(); got != "null" {
			t.Errorf("expected null, got %q", got)
		}
	})

	t.Run("parse round-trips String", func(t *testing.T) {
		t.Parallel()

		d, err := ParseDate("2025-12-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Equal(NewDate(2025, time.December, 1)) {
			t.Errorf("unexpected date %v", d)
		}
	})

	t.Run("parse rejects garbage", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseDate("15.03.2025"); err == nil {
			t.Error("expected error for non-ISO input")
		}
	})
}

// TestDateJSON tests the JSON encoding contract: "YYYY-MM-DD" or null.
func TestDateJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals valid date as quoted string", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(NewDate(2025, time.March, 21))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"2025-03-21"` {
			t.Errorf("expected \"2025-03-21\", got %s", data)
		}
	})

	t.Run("marshals null date as null", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(Date{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "null" {
			t.Errorf("expected null, got %s", data)
		}
	})

	t.Run("unmarshal round-trips both forms", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{`"2025-03-21"`, "null"} {
			var orig Date
			if err := json.Unmarshal([]byte(raw), &orig); err != nil {
				t.Fatalf("unmarshal %s: %v", raw, err)
			}
			data, err := json.Marshal(orig)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != raw {
				t.Errorf("round-trip of %s produced %s", raw, data)
			}
		}
	})

	t.Run("unmarshal rejects malformed input", func(t *testing.T) {
		t.Parallel()

		var d Date
		if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
			t.Error("expected error for malformed date")
		}
	})
}
