// Package fetch provides the HTTP client used to retrieve aggregator
// pages. It issues single-attempt GET requests with a bounded timeout and
// returns typed errors so callers can decide whether a failure skips one
// retailer or aborts the run.
package fetch
