package model

import (
	"encoding/json"
	"time"
)

// Retailer identifies one retailer discovered on the aggregator's landing
// page. Retailers are ephemeral: they drive per-retailer fetches and are
// never persisted.
type Retailer struct {
	// Name is the retailer's display name as shown on the landing page.
	Name string `json:"name"`

	// URL is the absolute URL of the retailer's flyer listing page.
	URL string `json:"url"`
}

// RawBrochure holds the field strings extracted from one flyer card before
// normalization. All fields are raw markup text; the normalizer converts
// them into a BrochureRecord.
type RawBrochure struct {
	// Title is the flyer title text. Parsers never emit a RawBrochure
	// with an empty title; untitled cards are skipped.
	Title string

	// Thumbnail is the flyer's preview image URL, or empty if the card
	// has no usable image.
	Thumbnail string

	// ValidityText is the raw validity-period fragment from the card,
	// e.g. "15.03.2025 - 21.03.2025". May be empty.
	ValidityText string

	// ShopName is the display name of the retailer the card belongs to.
	ShopName string
}

// NullableString is a string that marshals the empty value as JSON null.
// Used for optional fields whose absence must be visible in the output.
type NullableString string

// MarshalJSON implements json.Marshaler.
// The value is encoded as a regular JSON string so metacharacters are
// escaped; only the empty value maps to null.
func (s NullableString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
// Accepts a JSON string or null.
func (s *NullableString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	return json.Unmarshal(data, (*string)(s))
}

// BrochureRecord is the unit of output: one flyer, fully normalized.
//
// Invariant: every emitted record has a non-empty Title and ShopName.
// A record with unparsable dates is still emitted with null dates rather
// than dropped, since partial data is more useful than silent loss.
type BrochureRecord struct {
	// Title is the flyer title. Always non-empty.
	Title string `json:"title"`

	// Thumbnail is the flyer preview image URL, serialized as null when
	// no image was found.
	Thumbnail NullableString `json:"thumbnail"`

	// ShopName is the originating retailer's display name. Always non-empty.
	ShopName string `json:"shop_name"`

	// ValidFrom is the first day the flyer is valid, or null if the
	// validity text could not be parsed.
	ValidFrom Date `json:"valid_from"`

	// ValidTo is the last day the flyer is valid, or null if the
	// validity text could not be parsed.
	ValidTo Date `json:"valid_to"`

	// ParsedTime is the capture timestamp, stamped at normalization time.
	ParsedTime time.Time `json:"parsed_time"`
}

// Equal reports whether two records are identical in all fields.
func (b BrochureRecord) Equal(other BrochureRecord) bool {
	return b.Title == other.Title &&
		b.Thumbnail == other.Thumbnail &&
		b.ShopName == other.ShopName &&
		b.ValidFrom.Equal(other.ValidFrom) &&
		b.ValidTo.Equal(other.ValidTo) &&
		b.ParsedTime.Equal(other.ParsedTime)
}

// Key returns a stable identity for the record within one retailer page.
// Used by run comparison to match flyers across runs.
func (b BrochureRecord) Key() string {
	return b.ShopName + "\x00" + b.Title + "\x00" + b.ValidFrom.String() + "\x00" + b.ValidTo.String()
}
