// Package tor runs an embedded Tor daemon for grab runs started with --tor.
//
// The daemon is launched with tornago on OS-assigned ports. Its SOCKS
// address is handed to the crawler as an ordinary SOCKS5 proxy, so pages
// and .onion seeds are fetched through Tor without an external install.
// CheckProxy verifies that an address speaks SOCKS5 before a run starts.
package tor
