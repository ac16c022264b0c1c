// Package seed supplies the seed URLs of a run.
//
// A Source yields a whole list at once (from a file or from command line
// arguments). A Prompter reads URLs one at a time from an interactive
// terminal and also answers the menu and filter questions of interactive
// mode.
//
// Seeds are trimmed and blank lines dropped; duplicates collapse, keeping the
// first appearance. No URL validation happens here: a malformed seed
// simply fails when it is fetched.
package seed
