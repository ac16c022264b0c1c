// Package main provides the entry point for the linkgrab CLI.
//
// linkgrab fetches web pages, collects the links they contain, filters them
// by keyword and saves the deduplicated result to a text file.
//
// Usage:
//
//	linkgrab grab https://example.com/ https://example.org/
//	linkgrab grab -f urls.txt --include blog --exclude draft
//	linkgrab grab -i
//
// See --help for all available options.
package main

func main() {
	Execute()
}
