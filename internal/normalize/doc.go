// Package normalize converts raw brochure field strings into normalized
// records: validity text becomes typed calendar dates, text fields are
// trimmed, and the capture timestamp is stamped. All functions are pure
// and deterministic given their inputs plus the injected clock value.
package normalize
