// Package model defines the data structures shared by the crawler, the
// coordinator, the report writers and the run archive.
//
// The main types are:
//   - LinkSet: a deduplicated set of resolved URLs
//   - PageResult: the outcome of processing one seed URL
//   - AggregateResult: the union of all page results of one run
//
// Models live in their own package so that crawler, pipeline, report and
// database can share them without import cycles. They serialize to JSON for
// report output and archive storage.
package model
