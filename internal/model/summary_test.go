package model

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNewRunSummary(t *testing.T) {
	t.Parallel()

	agg := NewAggregateResult()
	agg.Merge(NewPageResult("https://b.com/", NewLinkSet("https://x.com/2", "https://x.com/1"), time.Second))
	agg.Merge(NewFailedResult("https://c.com/", StatusFetchFailed, errors.New("fetch https://c.com/: status code 404"), 0))
	agg.Merge(NewPageResult("https://a.com/", NewLinkSet("https://x.com/2"), time.Second))
	agg.Elapsed = 3 * time.Second

	s := NewRunSummary(agg, []string{"x"}, nil, "/tmp/2_links_output.txt")

	if s.Processed != 3 || s.Completed != 2 || s.Failed != 1 || s.UniqueLinks != 2 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if !s.Incomplete() {
		t.Error("expected incomplete run")
	}
	if !reflect.DeepEqual(s.Links, []string{"https://x.com/1", "https://x.com/2"}) {
		t.Errorf("unexpected links %v", s.Links)
	}
	gotURLs := []string{s.Pages[0].URL, s.Pages[1].URL, s.Pages[2].URL}
	if !reflect.DeepEqual(gotURLs, []string{"https://a.com/", "https://b.com/", "https://c.com/"}) {
		t.Errorf("pages not sorted: %v", gotURLs)
	}
	if s.Pages[0].New != 0 || s.Pages[1].New != 2 {
		t.Errorf("unexpected new counts: %+v", s.Pages)
	}
	if s.Pages[2].Error == "" {
		t.Error("expected failure text on failed page")
	}
	if s.Fingerprint != agg.Links.Fingerprint() {
		t.Error("expected fingerprint of the aggregate link set")
	}
	if agg.Pages[0].URL != "https://b.com/" {
		t.Error("summary must not reorder the aggregate's pages")
	}
}

func TestParsePageStatus(t *testing.T) {
	t.Parallel()

	for _, st := range []PageStatus{StatusCompleted, StatusFetchFailed, StatusTaskFailed} {
		if got := ParsePageStatus(st.String()); got != st {
			t.Errorf("ParsePageStatus(%q) = %v, want %v", st.String(), got, st)
		}
	}
	if got := ParsePageStatus("bogus"); got != StatusTaskFailed {
		t.Errorf("expected unknown names to map to StatusTaskFailed, got %v", got)
	}
}

func TestAggregateResultPages(t *testing.T) {
	t.Parallel()

	agg := NewAggregateResult()
	agg.Merge(NewPageResult("https://a.com/", NewLinkSet("https://x.com/1"), 0))
	agg.Merge(NewFailedResult("https://b.com/", StatusTaskFailed, errors.New("panic"), 0))

	if len(agg.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(agg.Pages))
	}
	if agg.Completed() != 1 {
		t.Errorf("expected 1 completed, got %d", agg.Completed())
	}
	if agg.Pages[1].Status != StatusTaskFailed || agg.Pages[1].Error != "panic" {
		t.Errorf("unexpected page summary %+v", agg.Pages[1])
	}

	other := NewAggregateResult()
	other.Merge(NewPageResult("https://c.com/", NewLinkSet(), 0))
	agg.Combine(other)
	if len(agg.Pages) != 3 {
		t.Errorf("expected 3 pages after combine, got %d", len(agg.Pages))
	}
}
