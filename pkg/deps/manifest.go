package deps

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

type cargoFile struct {
	Dependencies      map[string]any         `toml:"dependencies"`
	DevDependencies   map[string]any         `toml:"dev-dependencies"`
	BuildDependencies map[string]any         `toml:"build-dependencies"`
	Target            map[string]cargoTarget `toml:"target"`
}

// cargoTarget holds the dependency tables of one [target.<cfg>] section.
type cargoTarget struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func (c *cargoFile) tables() []map[string]any {
	tables := []map[string]any{c.Dependencies, c.DevDependencies, c.BuildDependencies}
	for _, t := range c.Target {
		tables = append(tables, t.Dependencies, t.DevDependencies, t.BuildDependencies)
	}
	return tables
}

// ReadCargoManifest reads a Cargo.toml and returns its declared dependencies
// as root specs ("name" or "name@req"), sorted and without duplicates.
//
// Dependencies from [dependencies], [dev-dependencies] and
// [build-dependencies] are included, as are the same tables under any
// [target.<cfg>] section regardless of the platform they name. Local path and git dependencies that
// declare no version are skipped since the index cannot resolve them.
func ReadCargoManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	return ParseCargoManifest(data)
}

// ParseCargoManifest is [ReadCargoManifest] for manifest contents.
func ParseCargoManifest(data []byte) ([]string, error) {
	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, errs.Wrap(errs.ErrCodeDeserialize, err, "parse Cargo.toml")
	}

	var specs []string
	for _, table := range cargo.tables() {
		for alias, v := range table {
			if spec, ok := cargoSpec(alias, v); ok {
				specs = append(specs, spec)
			}
		}
	}
	slices.Sort(specs)
	return slices.Compact(specs), nil
}

// cargoSpec converts one dependency entry. Entries are either a requirement
// string or an inline table.
func cargoSpec(alias string, v any) (string, bool) {
	switch dep := v.(type) {
	case string:
		return joinSpec(alias, dep), true
	case map[string]any:
		name := alias
		if pkg, ok := dep["package"].(string); ok && pkg != "" {
			name = pkg
		}
		version, _ := dep["version"].(string)
		if version == "" {
			if _, local := dep["path"]; local {
				return "", false
			}
			if _, git := dep["git"]; git {
				return "", false
			}
		}
		return joinSpec(name, version), true
	default:
		return "", false
	}
}

func joinSpec(name, req string) string {
	req = strings.TrimSpace(req)
	if req == "" || req == "*" {
		return name
	}
	return name + "@" + req
}
