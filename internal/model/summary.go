package model

import (
	"sort"
	"time"
)

// RunSummary is the report view of a finished run.
type RunSummary struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall time of the run.
	Elapsed time.Duration `json:"elapsed"`

	// Include and Exclude are the keyword lists in effect.
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`

	// Processed is the number of distinct seeds attempted.
	Processed int `json:"processed"`

	// Completed is the number of seeds whose page was fetched and parsed.
	Completed int `json:"completed"`

	// Failed is the number of seeds that contributed nothing because of an error.
	Failed int `json:"failed"`

	// UniqueLinks is the size of the aggregate link set.
	UniqueLinks int `json:"unique_links"`

	// Fingerprint identifies the link set; see LinkSet.Fingerprint.
	Fingerprint string `json:"fingerprint"`

	// OutputFile is the absolute path of the saved link file, if any.
	OutputFile string `json:"output_file,omitempty"`

	// Pages lists per-seed outcomes sorted by URL.
	Pages []PageSummary `json:"pages"`

	// Links is the sorted link list.
	Links []string `json:"links"`
}

// NewRunSummary builds the summary of agg.
func NewRunSummary(agg *AggregateResult, include, exclude []string, outputFile string) *RunSummary {
	pages := make([]PageSummary, len(agg.Pages))
	copy(pages, agg.Pages)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].URL < pages[j].URL
	})

	return &RunSummary{
		StartedAt:   agg.StartedAt,
		Elapsed:     agg.Elapsed,
		Include:     include,
		Exclude:     exclude,
		Processed:   agg.Processed.Len(),
		Completed:   agg.Completed(),
		Failed:      agg.Failed,
		UniqueLinks: agg.Links.Len(),
		Fingerprint: agg.Links.Fingerprint(),
		OutputFile:  outputFile,
		Pages:       pages,
		Links:       agg.Links.Sorted(),
	}
}

// Incomplete reports whether any seed failed.
func (s *RunSummary) Incomplete() bool {
	return s.Failed > 0
}
