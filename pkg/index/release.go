package index

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

const (
	// DefaultSchemaVersion is assumed for index lines without a "v" field.
	DefaultSchemaVersion = 1

	// KindNormal is the dependency kind used when an index entry omits "kind".
	KindNormal = "normal"
	KindDev    = "dev"
	KindBuild  = "build"
)

// ValidateKinds returns an INVALID_INPUT error naming the first entry of kinds
// that is not a known dependency kind.
func ValidateKinds(kinds []string) error {
	for _, k := range kinds {
		switch k {
		case KindNormal, KindDev, KindBuild:
		default:
			return errs.New(errs.ErrCodeInvalidInput, "unknown dependency kind %q (available: normal, dev, build)", k)
		}
	}
	return nil
}

// Features maps a feature name to the features and dependencies it enables.
type Features map[string][]string

// Release is one published version of a package, exactly as it appears on a
// single line of an index file.
//
// JSON field names follow the registry index format so that a Release
// decoded from an index re-encodes to an equivalent line.
type Release struct {
	Name          string          `json:"name"`
	Version       *semver.Version `json:"vers"`
	Dependencies  []Dependency    `json:"deps"`
	Checksum      string          `json:"cksum"`
	Features      Features        `json:"features"`
	Yanked        bool            `json:"yanked"`
	Links         *string         `json:"links"`
	SchemaVersion uint32          `json:"v"`
	Features2     Features        `json:"features2"`
	RustVersion   *VersionReq     `json:"rust_version,omitempty"`
}

// UnmarshalJSON decodes an index line, defaulting "v" to 1 when it is
// missing or null.
func (r *Release) UnmarshalJSON(data []byte) error {
	type release Release
	aux := release{SchemaVersion: DefaultSchemaVersion}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Release(aux)
	return nil
}

// ID returns "name@version", e.g. "serde@1.0.193".
func (r *Release) ID() string {
	if r.Version == nil {
		return r.Name
	}
	return r.Name + "@" + r.Version.String()
}

// DependencyNames returns the lookup name of every dependency in listed order.
// Renamed dependencies report the package they refer to, not the alias.
func (r *Release) DependencyNames() []string {
	names := make([]string, 0, len(r.Dependencies))
	for _, d := range r.Dependencies {
		names = append(names, d.EffectiveName())
	}
	return names
}

// FeatureNames returns the sorted names of all features, including those
// declared in features2.
func (r *Release) FeatureNames() []string {
	all := maps.Clone(r.Features)
	if all == nil {
		all = Features{}
	}
	maps.Copy(all, r.Features2)
	return slices.Sorted(maps.Keys(all))
}

// Dependency is a dependency declaration of a [Release].
type Dependency struct {
	Name            string     `json:"name"`
	Req             VersionReq `json:"req"`
	Features        []string   `json:"features"`
	Optional        bool       `json:"optional"`
	DefaultFeatures bool       `json:"default_features"`
	Target          *string    `json:"target"`
	Kind            *string    `json:"kind"`
	Registry        *string    `json:"registry"`
	Package         *string    `json:"package"`
}

// EffectiveName returns the name to look the dependency up under.
// When a dependency is renamed in Cargo.toml, Name holds the alias and
// Package the real package name.
func (d *Dependency) EffectiveName() string {
	if d.Package != nil && *d.Package != "" {
		return *d.Package
	}
	return d.Name
}

// KindOrNormal returns the dependency kind, treating a missing kind as
// [KindNormal].
func (d *Dependency) KindOrNormal() string {
	if d.Kind == nil || *d.Kind == "" {
		return KindNormal
	}
	return *d.Kind
}
