package model

import (
	"encoding/json"
	"time"
)

// PageStatus is the terminal state of the task that processed one seed URL.
type PageStatus int

const (
	// StatusCompleted means the page was fetched and its links extracted.
	// The link set may still be empty.
	StatusCompleted PageStatus = iota

	// StatusFetchFailed means the fetch returned an error (network error,
	// timeout, non-200 status). The page contributes no links.
	StatusFetchFailed

	// StatusTaskFailed means the task failed outside the fetcher, for
	// example a recovered panic or a cancelled context.
	StatusTaskFailed
)

// String returns a lower-case name for the status.
func (s PageStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFetchFailed:
		return "fetch_failed"
	case StatusTaskFailed:
		return "task_failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string name.
func (s PageStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParsePageStatus is the inverse of PageStatus.String. Unknown names map
// to StatusTaskFailed.
func ParsePageStatus(s string) PageStatus {
	switch s {
	case "completed":
		return StatusCompleted
	case "fetch_failed":
		return StatusFetchFailed
	default:
		return StatusTaskFailed
	}
}

// PageResult pairs a seed URL with the links that survived filtering.
type PageResult struct {
	// URL is the seed URL exactly as it was submitted.
	URL string `json:"url"`

	// Links holds the filtered, resolved links found on the page.
	Links LinkSet `json:"links"`

	// Status is the terminal state of the task.
	Status PageStatus `json:"status"`

	// Err is set when Status is not StatusCompleted.
	Err error `json:"-"`

	// Error mirrors Err for serialization.
	Error string `json:"error,omitempty"`

	// Elapsed is the wall time spent on this URL.
	Elapsed time.Duration `json:"elapsed"`
}

// NewPageResult returns a completed result for url with the given links.
func NewPageResult(url string, links LinkSet, elapsed time.Duration) *PageResult {
	return &PageResult{
		URL:     url,
		Links:   links,
		Status:  StatusCompleted,
		Elapsed: elapsed,
	}
}

// NewFailedResult returns a result with an empty link set and the given
// failure status.
func NewFailedResult(url string, status PageStatus, err error, elapsed time.Duration) *PageResult {
	r := &PageResult{
		URL:     url,
		Links:   NewLinkSet(),
		Status:  status,
		Err:     err,
		Elapsed: elapsed,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Failed reports whether the page contributed nothing because of an error.
func (r *PageResult) Failed() bool {
	return r.Status != StatusCompleted
}

// PageSummary is what the aggregate remembers about one processed seed.
type PageSummary struct {
	URL     string        `json:"url"`
	Status  PageStatus    `json:"status"`
	Found   int           `json:"found"`
	New     int           `json:"new"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// AggregateResult is the union of all page results of one run.
type AggregateResult struct {
	// Links is the deduplicated union of every page's links.
	Links LinkSet `json:"links"`

	// Processed holds every seed URL that was attempted, whether or not
	// the fetch succeeded.
	Processed LinkSet `json:"processed"`

	// Failed counts the seeds whose result was not StatusCompleted.
	Failed int `json:"failed"`

	// Pages lists every merged result in merge order.
	Pages []PageSummary `json:"pages"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall time of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// NewAggregateResult returns an empty aggregate stamped with the current time.
func NewAggregateResult() *AggregateResult {
	return &AggregateResult{
		Links:     NewLinkSet(),
		Processed: NewLinkSet(),
		StartedAt: time.Now(),
	}
}

// Merge records r as processed and adds its links to the aggregate.
// It returns the number of links that were new to the aggregate.
// Merge must only be called from the goroutine that owns the aggregate.
func (a *AggregateResult) Merge(r *PageResult) int {
	a.Processed.Add(r.URL)
	if r.Failed() {
		a.Failed++
	}
	added := a.Links.Merge(r.Links)
	a.Pages = append(a.Pages, PageSummary{
		URL:     r.URL,
		Status:  r.Status,
		Found:   r.Links.Len(),
		New:     added,
		Error:   r.Error,
		Elapsed: r.Elapsed,
	})
	return added
}

// Completed returns the number of merged pages that completed.
func (a *AggregateResult) Completed() int {
	n := 0
	for _, p := range a.Pages {
		if p.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// Combine folds another aggregate into a, as if both runs had been one.
func (a *AggregateResult) Combine(other *AggregateResult) {
	a.Links.Merge(other.Links)
	a.Processed.Merge(other.Processed)
	a.Failed += other.Failed
	a.Pages = append(a.Pages, other.Pages...)
	a.Elapsed += other.Elapsed
}
