// Package pipeline provides a framework for executing scrape steps in sequence.
//
// The pipeline pattern is used to process a run through its stages:
// enumerating retailers from the landing page, scraping each retailer's
// flyer page, persisting run history, and writing the output artifact.
// Each stage is implemented as a Step that receives the current run report
// and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running runs
package pipeline
