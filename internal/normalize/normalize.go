package normalize

import (
	"strings"
	"time"

	"github.com/flyerhub/prospektor/internal/model"
)

// Record converts a raw brochure into a normalized BrochureRecord.
//
// The validity text is parsed into typed dates; on format mismatch both
// dates are null and a warning is returned, but the record is still
// emitted, since partial data is more useful than silent loss. Title and
// thumbnail are trimmed, and ParsedTime is stamped from the injected now.
//
// Record is pure: given identical input and a fixed now, it always yields
// an identical record.
func Record(raw model.RawBrochure, now time.Time) (model.BrochureRecord, []model.Warning) {
	var warnings []model.Warning

	validityText := strings.TrimSpace(raw.ValidityText)
	from, to, ok := Validity(validityText, now)
	if !ok && validityText != "" {
		warnings = append(warnings, model.Warning{
			Kind:   model.WarnUnparsableDate,
			Shop:   raw.ShopName,
			Detail: validityText,
		})
	}

	return model.BrochureRecord{
		Title:      strings.TrimSpace(raw.Title),
		Thumbnail:  model.NullableString(strings.TrimSpace(raw.Thumbnail)),
		ShopName:   strings.TrimSpace(raw.ShopName),
		ValidFrom:  from,
		ValidTo:    to,
		ParsedTime: now,
	}, warnings
}
