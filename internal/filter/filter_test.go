package filter

import (
	"testing"
)

func TestParseKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		raw               string
		wantUnconstrained bool
		wantList          []string
	}{
		{name: "empty input", raw: "", wantUnconstrained: true},
		{name: "whitespace only", raw: "   \t ", wantUnconstrained: true},
		{name: "only commas", raw: " , ,, ", wantUnconstrained: true},
		{name: "single keyword", raw: "blog", wantList: []string{"blog"}},
		{name: "trims and drops blanks", raw: " blog , ,News ", wantList: []string{"blog", "News"}},
		{name: "keeps case", raw: "DRAFT", wantList: []string{"DRAFT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := ParseKeywords(tt.raw)
			if s.IsUnconstrained() != tt.wantUnconstrained {
				t.Fatalf("IsUnconstrained() = %v, want %v", s.IsUnconstrained(), tt.wantUnconstrained)
			}
			got := s.List()
			if len(got) != len(tt.wantList) {
				t.Fatalf("expected %v, got %v", tt.wantList, got)
			}
			for i := range got {
				if got[i] != tt.wantList[i] {
					t.Errorf("index %d: expected %q, got %q", i, tt.wantList[i], got[i])
				}
			}
		})
	}
}

func TestStageEquivalences(t *testing.T) {
	t.Parallel()

	t.Run("zero value is unconstrained", func(t *testing.T) {
		t.Parallel()

		var s Stage
		if !s.IsUnconstrained() {
			t.Error("expected zero Stage to be unconstrained")
		}
		if s.String() != "none" {
			t.Errorf("expected 'none', got %q", s.String())
		}
	})

	t.Run("empty keyword set behaves as unconstrained", func(t *testing.T) {
		t.Parallel()

		s := Keywords()
		if !s.IsUnconstrained() {
			t.Error("expected empty keyword set to report unconstrained")
		}
		p := Policy{Include: s, Exclude: s}
		if !p.Allow("https://x.com/anything") {
			t.Error("expected link to pass")
		}
	})

	t.Run("empty string keyword is a real constraint", func(t *testing.T) {
		t.Parallel()

		s := Keywords("")
		if s.IsUnconstrained() {
			t.Fatal("expected keyword set with empty string to be constrained")
		}

		if !(Policy{Include: s}).Allow("https://x.com/") {
			t.Error("expected empty include keyword to match every link")
		}
		if (Policy{Exclude: s}).Allow("https://x.com/") {
			t.Error("expected empty exclude keyword to reject every link")
		}
	})

	t.Run("from list drops blanks", func(t *testing.T) {
		t.Parallel()

		if !FromList(nil).IsUnconstrained() {
			t.Error("expected nil list to be unconstrained")
		}
		if !FromList([]string{" ", ""}).IsUnconstrained() {
			t.Error("expected blank list to be unconstrained")
		}
		if got := FromList([]string{" a ", "b"}).List(); len(got) != 2 || got[0] != "a" {
			t.Errorf("unexpected list %v", got)
		}
	})
}

func TestPolicyAllow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy Policy
		link   string
		want   bool
	}{
		{
			name: "no filters pass everything",
			link: "https://x.com/a",
			want: true,
		},
		{
			name:   "include matches",
			policy: Policy{Include: Keywords("blog")},
			link:   "https://x.com/blog/post",
			want:   true,
		},
		{
			name:   "include is case insensitive",
			policy: Policy{Include: Keywords("BLOG")},
			link:   "https://x.com/Blog/post",
			want:   true,
		},
		{
			name:   "include requires one keyword",
			policy: Policy{Include: Keywords("blog", "news")},
			link:   "https://x.com/about",
			want:   false,
		},
		{
			name:   "any include keyword is enough",
			policy: Policy{Include: Keywords("blog", "news")},
			link:   "https://x.com/news/1",
			want:   true,
		},
		{
			name:   "exclude rejects",
			policy: Policy{Exclude: Keywords("login")},
			link:   "https://x.com/LOGIN",
			want:   false,
		},
		{
			name:   "exclude wins over include",
			policy: Policy{Include: Keywords("blog"), Exclude: Keywords("blog/draft")},
			link:   "https://x.com/blog/draft/post",
			want:   false,
		},
		{
			name:   "include with non matching exclude",
			policy: Policy{Include: Keywords("blog"), Exclude: Keywords("blog/draft")},
			link:   "https://x.com/blog/post",
			want:   true,
		},
		{
			name:   "non ascii keywords match in any case",
			policy: Policy{Include: Keywords("CAFÉ")},
			link:   "https://x.com/café",
			want:   true,
		},
		{
			name:   "sharp s is not folded to ss",
			policy: Policy{Include: Keywords("ss")},
			link:   "https://x.com/straße",
			want:   false,
		},
		{
			name:   "ss keyword does not exclude sharp s",
			policy: Policy{Exclude: Keywords("STRASSE")},
			link:   "https://x.com/STRAßE",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.policy.Allow(tt.link); got != tt.want {
				t.Errorf("Allow(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestKeywordsCopiesInput(t *testing.T) {
	t.Parallel()

	in := []string{"a", "b"}
	s := Keywords(in...)
	in[0] = "z"

	if s.List()[0] != "a" {
		t.Error("expected Keywords to copy its input")
	}
}
