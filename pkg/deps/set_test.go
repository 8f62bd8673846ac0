package deps

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/cargoquery/pkg/index"
)

func release(name, vers string, deps ...index.Dependency) *index.Release {
	return &index.Release{Name: name, Version: semver.MustParse(vers), Dependencies: deps}
}

func requires(name, req string) index.Dependency {
	return index.Dependency{Name: name, Req: index.MustParseVersionReq(req)}
}

func TestSetFind(t *testing.T) {
	s := NewSet()
	s.Add(release("Inflector", "0.11.4"))
	s.Add(release("rand", "0.7.3"))
	s.Add(release("rand", "0.8.5"))

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("inflector", index.MustParseVersionReq("0.11")))
	assert.False(t, s.Contains("inflector", index.MustParseVersionReq("0.12")))
	assert.False(t, s.Contains("serde", index.VersionReq{}))

	got := s.Find("rand", index.MustParseVersionReq("0.8"))
	if assert.NotNil(t, got) {
		assert.Equal(t, "rand@0.8.5", got.ID())
	}
	assert.Equal(t, "rand@0.7.3", s.Find("rand", index.VersionReq{}).ID(), "first match wins")
}

func TestSetReleasesIsCopy(t *testing.T) {
	s := NewSet()
	s.Add(release("a", "1.0.0"))
	rels := s.Releases()
	rels[0] = release("b", "1.0.0")
	assert.Equal(t, "a@1.0.0", s.Releases()[0].ID())
}

func TestSetEdges(t *testing.T) {
	dev := index.KindDev
	tester := requires("tester", "1")
	tester.Kind = &dev

	s := NewSet()
	s.Add(release("app", "1.0.0", requires("lib", "1"), tester, requires("unresolved", "1")))
	s.Add(release("lib", "1.2.0", requires("app", "1")))
	s.Add(release("tester", "1.0.0"))

	assert.Equal(t, []Edge{
		{From: "app@1.0.0", To: "lib@1.2.0", Kind: index.KindNormal},
		{From: "app@1.0.0", To: "tester@1.0.0", Kind: index.KindDev},
		{From: "lib@1.2.0", To: "app@1.0.0", Kind: index.KindNormal},
	}, s.Edges())
}
