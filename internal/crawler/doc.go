// Package crawler fetches single pages and extracts filtered links from them.
//
// # Components
//
//   - Fetcher: performs one HTTP GET with a fixed timeout and a browser-like
//     User-Agent, and returns the decoded body or a *FetchError.
//   - Extract: parses anchors out of an HTML body, resolves them against the
//     page URL, and applies the keyword policy and the http/https gate.
//   - NewHTTPClient: builds the shared *http.Client, optionally routed through
//     a SOCKS5 proxy.
//
// The package never follows the links it extracts. Each seed URL is fetched
// once and the result handed back to the caller.
//
// # Usage
//
//	client, _ := crawler.NewHTTPClient(crawler.ClientOptions{})
//	f := crawler.NewFetcher(client, crawler.WithTimeout(10*time.Second))
//	page, err := f.Fetch(ctx, "https://example.com/")
//	if err == nil {
//		links, _ := crawler.Extract(page.URL, bytes.NewReader(page.Body), policy)
//	}
package crawler
