package model

import "fmt"

// WarningKind classifies a non-fatal anomaly found while parsing.
type WarningKind string

// Warning kinds emitted by the parsers and the normalizer.
const (
	// WarnMissingRetailerURL marks a landing-page anchor without a
	// usable href. The retailer is skipped.
	WarnMissingRetailerURL WarningKind = "missing_retailer_url"

	// WarnMissingTitle marks a flyer card without a title. The card is
	// skipped because an untitled flyer is not useful output.
	WarnMissingTitle WarningKind = "missing_title"

	// WarnExpiredCard marks a flyer card flagged as expired by the
	// source markup. The card is skipped.
	WarnExpiredCard WarningKind = "expired_card"

	// WarnMissingThumbnail marks a flyer card without a usable image.
	// The card is kept with a null thumbnail.
	WarnMissingThumbnail WarningKind = "missing_thumbnail"

	// WarnUnparsableDate marks validity text that matched no known date
	// format. The record is kept with null dates.
	WarnUnparsableDate WarningKind = "unparsable_date"
)

// Warning describes one recoverable anomaly observed during parsing or
// normalization. Parsers return warnings as values instead of logging so
// they stay pure; the pipeline decides how to report them.
type Warning struct {
	// Kind classifies the anomaly.
	Kind WarningKind

	// Shop is the retailer the anomaly belongs to. Empty for
	// landing-page anomalies.
	Shop string

	// Detail carries the offending value, e.g. the unparsable validity
	// text. May be empty.
	Detail string
}

// String returns a human-readable description of the warning.
func (w Warning) String() string {
	s := string(w.Kind)
	if w.Shop != "" {
		s = fmt.Sprintf("%s (shop %q)", s, w.Shop)
	}
	if w.Detail != "" {
		s = fmt.Sprintf("%s: %s", s, w.Detail)
	}
	return s
}
