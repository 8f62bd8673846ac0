package deps

import (
	"slices"
	"strings"

	"github.com/matzehuels/cargoquery/pkg/index"
)

// Set is the ordered, append-only output of a resolution run.
//
// Releases keep the order in which they were visited. Membership is looked
// up by package name (ASCII case-insensitive, like index paths) plus a
// version requirement, which is what the resolver's cycle guard needs.
type Set struct {
	releases []*index.Release
	byName   map[string][]int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{byName: make(map[string][]int)}
}

// Add appends rel. Adding the same release twice keeps both entries.
func (s *Set) Add(rel *index.Release) {
	key := strings.ToLower(rel.Name)
	s.byName[key] = append(s.byName[key], len(s.releases))
	s.releases = append(s.releases, rel)
}

// Len returns the number of releases in the set.
func (s *Set) Len() int { return len(s.releases) }

// Releases returns the releases in visitation order.
func (s *Set) Releases() []*index.Release { return slices.Clone(s.releases) }

// Find returns the first release named name whose version satisfies req,
// or nil.
func (s *Set) Find(name string, req index.VersionReq) *index.Release {
	for _, i := range s.byName[strings.ToLower(name)] {
		if req.Matches(s.releases[i].Version) {
			return s.releases[i]
		}
	}
	return nil
}

// Contains reports whether [Set.Find] would return a release.
func (s *Set) Contains(name string, req index.VersionReq) bool {
	return s.Find(name, req) != nil
}

// Edge is a dependency link between two releases of a Set.
type Edge struct {
	From string // Release ID of the dependent, e.g. "serde_json@1.0.108"
	To   string // Release ID of the dependency
	Kind string // Dependency kind: normal, dev or build
}

// Edges links every release to the set members satisfying its dependency
// declarations. Dependencies with no satisfying member (not followed, or
// dropped by ignore-missing) produce no edge.
func (s *Set) Edges() []Edge {
	var edges []Edge
	for _, rel := range s.releases {
		for i := range rel.Dependencies {
			d := &rel.Dependencies[i]
			if to := s.Find(d.EffectiveName(), d.Req); to != nil {
				edges = append(edges, Edge{From: rel.ID(), To: to.ID(), Kind: d.KindOrNormal()})
			}
		}
	}
	return edges
}
