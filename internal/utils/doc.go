// Package utils provides shared helpers for the keystash CLI.
//
// # Input
//
//   - ReadPiped: reads a value piped on stdin, if any
//   - ReadSecret: prompts for a secret without echoing it
//   - IsTerminal: reports whether stdin is a terminal
//
// # Names
//
//   - MatchNames: filters item names with a doublestar glob
//   - FormatNames, FormatPaths: bullet lists for human-readable output
//
// # Files
//
//   - CheckPrivate: reports whether a file or directory is closed to other users
package utils
