package index

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"slices"
	"strings"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

// maxLineSize bounds a single index line. Releases with very large feature
// tables run to a few hundred kilobytes.
const maxLineSize = 16 << 20

// Package is the set of releases of one package, in index file order
// (oldest first). It is immutable once built.
type Package struct {
	name      string
	indexPath string
	releases  []Release
}

// NewPackage builds a Package from releases ordered oldest to newest.
// The package name is taken from the last release. An empty release list
// returns an EMPTY_INDEX error.
func NewPackage(releases []Release) (*Package, error) {
	if len(releases) == 0 {
		return nil, errs.New(errs.ErrCodeEmptyIndex, "index file has no releases")
	}
	name := releases[len(releases)-1].Name
	return &Package{
		name:      name,
		indexPath: Path(name),
		releases:  releases,
	}, nil
}

// Parse parses the contents of an index file.
// See [ParseReader].
func Parse(raw string) (*Package, error) {
	return ParseReader(strings.NewReader(raw))
}

// ParseReader parses newline-delimited index records from r.
//
// Blank lines are skipped. The first line that fails to decode, or decodes
// without a name or version, aborts parsing with a DESERIALIZE error naming
// the line. Input without any release returns EMPTY_INDEX.
func ParseReader(r io.Reader) (*Package, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var releases []Release
	for line := 1; sc.Scan(); line++ {
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}

		var rel Release
		if err := json.Unmarshal(text, &rel); err != nil {
			return nil, errs.Wrap(errs.ErrCodeDeserialize, err, "index line %d", line)
		}
		if rel.Name == "" || rel.Version == nil {
			return nil, errs.New(errs.ErrCodeDeserialize, "index line %d: missing name or vers", line)
		}
		releases = append(releases, rel)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read index")
	}

	return NewPackage(releases)
}

// Name returns the package name as spelled by its newest release.
func (p *Package) Name() string { return p.name }

// IndexPath returns the package's location inside the index.
func (p *Package) IndexPath() string { return p.indexPath }

// Releases returns a copy of the releases, oldest first.
func (p *Package) Releases() []Release { return slices.Clone(p.releases) }

// Versions returns every release version as a string, oldest first.
func (p *Package) Versions() []string {
	vs := make([]string, len(p.releases))
	for i := range p.releases {
		vs[i] = p.releases[i].Version.String()
	}
	return vs
}

// Latest returns the most recently published release, or nil if there are
// none. Yanked releases are not skipped.
func (p *Package) Latest() *Release {
	if len(p.releases) == 0 {
		return nil
	}
	return &p.releases[len(p.releases)-1]
}

// Matching returns the highest release satisfying req, or nil if none does.
// Releases are scanned newest first; yanked releases are candidates.
func (p *Package) Matching(req VersionReq) *Release {
	for i := len(p.releases) - 1; i >= 0; i-- {
		if req.Matches(p.releases[i].Version) {
			return &p.releases[i]
		}
	}
	return nil
}
