// Package report serializes run results. The JSON writer produces the
// output artifact (a top-level array of brochure records); the simple and
// markdown writers render the run summary for humans.
package report
