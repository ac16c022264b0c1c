package seed

import "errors"

var (
	// ErrQuit is returned by Prompter.Next when the user asks to stop or
	// input ends.
	ErrQuit = errors.New("user finished entering URLs")

	// ErrNoSeeds is returned by Load when a source yields no URLs.
	ErrNoSeeds = errors.New("no valid URLs found")

	// ErrEmptyPath is returned by FileSource when no path was given.
	ErrEmptyPath = errors.New("no seed file selected")
)
