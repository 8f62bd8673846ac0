package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cargoquery/pkg/deps"
	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed puts the version on its own label line and marks yanked
	// releases. When false, only the release ID is shown.
	Detailed bool
}

// ToDOT converts a resolved set to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are releases in visitation order. Edges come from [deps.Set.Edges];
// dev dependencies are dashed and build dependencies dotted.
func ToDOT(set *deps.Set, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, rel := range set.Releases() {
		attrs := fmtAttrs(rel, fmtLabel(rel, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", rel.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range set.Edges() {
		if style, ok := edgeStyles[e.Kind]; ok {
			fmt.Fprintf(&buf, "  %q -> %q [style=%s];\n", e.From, e.To, style)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

var edgeStyles = map[string]string{
	index.KindDev:   "dashed",
	index.KindBuild: "dotted",
}

func fmtLabel(rel *index.Release, detailed bool) string {
	if !detailed || rel.Version == nil {
		return rel.ID()
	}
	label := rel.Name + "\n" + rel.Version.String()
	if rel.Yanked {
		label += "\n(yanked)"
	}
	return label
}

func fmtAttrs(rel *index.Release, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if rel.Yanked {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSerialize, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeSerialize, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// viewBox starts at the origin, so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
