// Package nodelink renders resolved dependency sets as node-link diagrams.
//
// Releases become boxes and dependency links become arrows, laid out top to
// bottom by Graphviz:
//
//	dot := nodelink.ToDOT(set, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [ToDOT] output can also be saved and processed with external Graphviz
// tools. Rendering uses [github.com/goccy/go-graphviz] in process, so no
// Graphviz installation is needed.
package nodelink
