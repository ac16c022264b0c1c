package model

import (
	"errors"
	"testing"
	"time"
)

func TestPageStatusString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status PageStatus
		want   string
	}{
		{StatusCompleted, "completed"},
		{StatusFetchFailed, "fetch_failed"},
		{StatusTaskFailed, "task_failed"},
		{PageStatus(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("PageStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestNewFailedResult(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	r := NewFailedResult("https://a.com/", StatusFetchFailed, err, time.Second)

	if !r.Failed() {
		t.Error("expected failed result")
	}
	if r.Links.Len() != 0 {
		t.Errorf("expected no links, got %d", r.Links.Len())
	}
	if r.Error != "boom" {
		t.Errorf("expected error text 'boom', got %q", r.Error)
	}
	if !errors.Is(r.Err, err) {
		t.Error("expected Err to be preserved")
	}
}

func TestAggregateResultMerge(t *testing.T) {
	t.Parallel()

	t.Run("records failures as processed", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregateResult()
		agg.Merge(NewPageResult("https://a.com/", NewLinkSet("https://a.com/x"), 0))
		agg.Merge(NewFailedResult("https://b.com/", StatusFetchFailed, errors.New("404"), 0))

		if agg.Processed.Len() != 2 {
			t.Errorf("expected 2 processed, got %d", agg.Processed.Len())
		}
		if agg.Failed != 1 {
			t.Errorf("expected 1 failed, got %d", agg.Failed)
		}
		if agg.Links.Len() != 1 {
			t.Errorf("expected 1 link, got %d", agg.Links.Len())
		}
	})

	t.Run("returns new count", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregateResult()
		first := agg.Merge(NewPageResult("https://a.com/", NewLinkSet("https://x.com/1", "https://x.com/2"), 0))
		second := agg.Merge(NewPageResult("https://b.com/", NewLinkSet("https://x.com/2", "https://x.com/3"), 0))

		if first != 2 {
			t.Errorf("expected 2 new on first merge, got %d", first)
		}
		if second != 1 {
			t.Errorf("expected 1 new on second merge, got %d", second)
		}
	})

	t.Run("partitioned merge equals whole merge", func(t *testing.T) {
		t.Parallel()

		pages := []*PageResult{
			NewPageResult("s1", NewLinkSet("https://x.com/1", "https://x.com/2"), 0),
			NewPageResult("s2", NewLinkSet("https://x.com/2", "https://x.com/3"), 0),
			NewPageResult("s3", NewLinkSet("https://x.com/4"), 0),
			NewFailedResult("s4", StatusTaskFailed, errors.New("panic"), 0),
		}

		whole := NewAggregateResult()
		for _, p := range pages {
			whole.Merge(p)
		}

		left := NewAggregateResult()
		right := NewAggregateResult()
		for i, p := range pages {
			if i%2 == 0 {
				left.Merge(p)
			} else {
				right.Merge(p)
			}
		}
		// Reverse order on purpose.
		right.Combine(left)

		if !right.Links.Equal(whole.Links) {
			t.Errorf("expected %v, got %v", whole.Links.Sorted(), right.Links.Sorted())
		}
		if !right.Processed.Equal(whole.Processed) {
			t.Errorf("expected processed %v, got %v", whole.Processed.Sorted(), right.Processed.Sorted())
		}
		if right.Failed != whole.Failed {
			t.Errorf("expected %d failed, got %d", whole.Failed, right.Failed)
		}
	})
}
