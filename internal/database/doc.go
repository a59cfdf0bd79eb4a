// Package database provides SQLite-based storage for run history.
//
// Every scrape run can be persisted as a row in the runs table together
// with the brochure records it produced. The history enables the compare
// command, which diffs the two most recent runs to show flyers that
// appeared or disappeared per retailer.
//
// The package uses modernc.org/sqlite, a pure Go SQLite driver, so no
// cgo toolchain is required to build or cross-compile.
package database
