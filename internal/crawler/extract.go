package crawler

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/linkgrab/internal/filter"
	"github.com/nao1215/linkgrab/internal/model"
)

// ExtractStats counts what happened to the anchors of one page.
type ExtractStats struct {
	// Anchors is the number of <a> elements carrying an href attribute.
	Anchors int

	// Malformed is the number of hrefs that could not be parsed as URLs.
	Malformed int

	// Filtered is the number of hrefs rejected by the keyword policy.
	Filtered int

	// NonWeb is the number of hrefs whose resolved form is not http/https.
	NonWeb int
}

// Extract returns the set of absolute http/https links found in the anchors
// of body that pass policy. Relative references are resolved against
// baseURL. Malformed markup and unparsable hrefs are skipped rather than
// reported; an error is returned only if baseURL is invalid or body cannot
// be read.
//
// Extract has no hidden state: the same inputs always yield the same set.
func Extract(baseURL string, body io.Reader, policy filter.Policy) (model.LinkSet, error) {
	links, _, err := ExtractWithStats(baseURL, body, policy)
	return links, err
}

// ExtractWithStats is Extract that also reports per-anchor counters.
func ExtractWithStats(baseURL string, body io.Reader, policy filter.Policy) (model.LinkSet, ExtractStats, error) {
	var stats ExtractStats

	base, err := url.Parse(baseURL)
	if err != nil {
		return model.LinkSet{}, stats, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return model.LinkSet{}, stats, fmt.Errorf("failed to read HTML: %w", err)
	}

	links := model.NewLinkSet()
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		stats.Anchors++

		resolved, ok := resolveReference(base, href)
		if !ok {
			stats.Malformed++
			return
		}
		if !policy.Allow(resolved) {
			stats.Filtered++
			return
		}
		if !isWebURL(resolved) {
			stats.NonWeb++
			return
		}
		links.Add(resolved)
	})

	return links, stats, nil
}

// resolveReference resolves href against base using RFC 3986 reference
// resolution. Surrounding whitespace is stripped as browsers do.
// An empty href resolves to the base URL itself.
//
// A fully qualified http(s) href is returned exactly as written: dot
// segments, non-ASCII characters and stray percent signs are kept, since
// links are keyed on their exact form. Relative hrefs that url.Parse
// rejects are joined to the base as strings.
func resolveReference(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if isWebURL(href) {
		return href, hasHost(href)
	}

	ref, err := url.Parse(href)
	if err != nil {
		resolved := joinLenient(base, href)
		return resolved, hasHost(resolved)
	}
	return base.ResolveReference(ref).String(), true
}

// joinLenient joins a relative reference that is not a valid URL to base.
// Dot segments in such references are not collapsed.
func joinLenient(base *url.URL, href string) string {
	b := *base
	b.Fragment = ""
	b.RawFragment = ""

	switch {
	case strings.HasPrefix(href, "//"):
		return b.Scheme + ":" + href
	case strings.HasPrefix(href, "/"):
		return b.Scheme + "://" + b.Host + href
	case strings.HasPrefix(href, "#"):
		return b.String() + href
	}

	b.RawQuery = ""
	b.ForceQuery = false
	if strings.HasPrefix(href, "?") {
		return b.String() + href
	}
	if b.Path == "" {
		return b.String() + "/" + href
	}
	s := b.String()
	return s[:strings.LastIndex(s, "/")+1] + href
}

// hasHost reports whether link parses, after escaping stray percent
// signs, into a URL with a host.
func hasHost(link string) bool {
	u, err := url.Parse(escapeStrayPercent(link))
	return err == nil && u.Host != ""
}

// escapeStrayPercent replaces every % that does not start a valid escape
// sequence with %25.
func escapeStrayPercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			sb.WriteString("%25")
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// isWebURL reports whether link uses the http or https scheme. The scheme
// is matched case-insensitively.
func isWebURL(link string) bool {
	return hasPrefixFold(link, "http://") || hasPrefixFold(link, "https://")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
