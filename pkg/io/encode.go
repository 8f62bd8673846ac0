package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
)

// Shape selects which part of each release is written.
type Shape string

const (
	ShapeFull     Shape = "full"     // The complete index record
	ShapeDeps     Shape = "deps"     // Dependency names
	ShapeFeatures Shape = "features" // Feature names
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text" // Release IDs, or names joined by the delimiter
)

// DefaultDelimiter separates names in text list output.
const DefaultDelimiter = "\n"

// Options configures [Encode].
type Options struct {
	Shape     Shape  // What to write (default: ShapeFull)
	Format    Format // How to write it (default: json for full, text for lists)
	Pretty    bool   // Indent JSON output
	Delimiter string // Name separator for text lists (default: newline)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Shape == "" {
		o.Shape = ShapeFull
	}
	if o.Format == "" {
		o.Format = FormatJSON
		if o.Shape != ShapeFull {
			o.Format = FormatText
		}
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	return o
}

// Encode writes releases to w.
//
// JSON and YAML output is a single document: one object when exactly one
// release is given, a sequence otherwise. Text output writes one line per
// release. Encoding failures return SERIALIZE, write failures IO and
// unknown shapes or formats INVALID_INPUT.
func Encode(w io.Writer, releases []*index.Release, opts Options) error {
	opts = opts.WithDefaults()

	var doc any
	switch opts.Shape {
	case ShapeFull:
		doc = fullDoc(releases, opts.Format)
	case ShapeDeps, ShapeFeatures:
		if opts.Format == FormatText {
			return writeText(w, listLines(releases, opts))
		}
		doc = listDoc(releases, opts.Shape)
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown output shape %q", opts.Shape)
	}

	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, doc, opts.Pretty)
	case FormatYAML:
		return writeYAML(w, doc)
	case FormatText:
		return writeText(w, releaseIDs(releases))
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown output format %q", opts.Format)
	}
}

// EncodeString is [Encode] into a string.
func EncodeString(releases []*index.Release, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, releases, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile encodes releases into the file at path, replacing it.
func WriteFile(path string, releases []*index.Release, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "create %s", path)
	}
	if err := Encode(f, releases, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

func fullDoc(releases []*index.Release, format Format) any {
	if releases == nil {
		releases = []*index.Release{}
	}
	if format != FormatYAML {
		if len(releases) == 1 {
			return releases[0]
		}
		return releases
	}
	views := make([]releaseView, len(releases))
	for i, r := range releases {
		views[i] = newReleaseView(r)
	}
	if len(views) == 1 {
		return views[0]
	}
	return views
}

func names(r *index.Release, shape Shape) []string {
	if shape == ShapeFeatures {
		return r.FeatureNames()
	}
	return r.DependencyNames()
}

// listDoc is a bare name list for one release, or one entry per release.
func listDoc(releases []*index.Release, shape Shape) any {
	if len(releases) == 1 {
		if ns := names(releases[0], shape); len(ns) > 0 {
			return ns
		}
		return []string{}
	}
	entries := make([]namesView, len(releases))
	for i, r := range releases {
		entries[i] = namesView{Release: r.ID(), Names: names(r, shape)}
	}
	return entries
}

func listLines(releases []*index.Release, opts Options) []string {
	lines := make([]string, len(releases))
	for i, r := range releases {
		lines[i] = strings.Join(names(r, opts.Shape), opts.Delimiter)
	}
	return lines
}

func releaseIDs(releases []*index.Release) []string {
	ids := make([]string, len(releases))
	for i, r := range releases {
		ids[i] = r.ID()
	}
	return ids
}

func writeJSON(w io.Writer, doc any, pretty bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.ErrCodeSerialize, err, "encode json")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write output")
	}
	return nil
}

func writeYAML(w io.Writer, doc any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.ErrCodeSerialize, err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeSerialize, err, "encode yaml")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write output")
	}
	return nil
}

func writeText(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errs.Wrap(errs.ErrCodeIO, err, "write output")
		}
	}
	return nil
}
