// Package pipeline runs the fetch-and-extract task for every seed URL of a
// run and merges the results.
//
// A Task fetches one page and extracts its filtered links. The Coordinator
// dispatches one Task per distinct seed across a bounded worker pool
// (errgroup.SetLimit) and drains the results on a single goroutine, which
// is the only code that touches the run's AggregateResult. Progress is
// reported through a callback invoked from that same goroutine, so
// callbacks never run concurrently.
//
// A failing or panicking task produces a failed PageResult and never stops
// its siblings. The only way to end a run early is to cancel its context.
package pipeline
