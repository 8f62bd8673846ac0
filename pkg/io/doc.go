// Package io writes resolved releases in the shapes the CLI and server
// expose, and reads full-shape JSON back.
//
// # Shapes
//
//   - full: the index record, field for field (name, vers, deps, cksum, ...)
//   - deps: dependency names in listed order, renamed dependencies by package
//   - features: sorted feature names, including features2
//
// # Formats
//
// JSON and YAML produce one document. A single release is written as an
// object (or, for list shapes, a bare array of names); several releases are
// written as an array:
//
//	{"name":"libc","vers":"0.1.12","deps":[],...}
//	[{"release":"serde@1.0.193","names":["serde_derive"]}, ...]
//
// Text output writes one line per release: its ID for the full shape, or
// its names joined by Options.Delimiter for list shapes.
//
// # Round Trip
//
// [ReadJSON] and [ReadFile] accept full-shape JSON, so saved output can be
// rendered later:
//
//	releases, err := io.ReadFile("resolved.json")
package io
