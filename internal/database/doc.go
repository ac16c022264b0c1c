// Package database provides the SQLite run archive for linkgrab.
//
// Each archived run stores:
//   - its counters, keyword filters and link-set fingerprint
//   - the outcome of every processed seed
//   - the collected links
//
// The archive uses modernc.org/sqlite, a CGO-free driver, so the database
// is a single file with no external services. The archive is opt-in
// (--archive) and lives in the XDG data directory by default.
package database
