package io

import "github.com/matzehuels/cargoquery/pkg/index"

// YAML has no notion of the JSON marshalers on index types, so YAML output
// goes through these string-typed mirrors of the index record.

type releaseView struct {
	Name          string           `yaml:"name"`
	Version       string           `yaml:"vers"`
	Dependencies  []dependencyView `yaml:"deps"`
	Checksum      string           `yaml:"cksum"`
	Features      index.Features   `yaml:"features"`
	Yanked        bool             `yaml:"yanked"`
	Links         *string          `yaml:"links"`
	SchemaVersion uint32           `yaml:"v"`
	Features2     index.Features   `yaml:"features2"`
	RustVersion   string           `yaml:"rust_version,omitempty"`
}

type dependencyView struct {
	Name            string   `yaml:"name"`
	Req             string   `yaml:"req"`
	Features        []string `yaml:"features"`
	Optional        bool     `yaml:"optional"`
	DefaultFeatures bool     `yaml:"default_features"`
	Target          *string  `yaml:"target"`
	Kind            *string  `yaml:"kind"`
	Registry        *string  `yaml:"registry,omitempty"`
	Package         *string  `yaml:"package,omitempty"`
}

type namesView struct {
	Release string   `json:"release" yaml:"release"`
	Names   []string `json:"names" yaml:"names"`
}

func newReleaseView(r *index.Release) releaseView {
	v := releaseView{
		Name:          r.Name,
		Checksum:      r.Checksum,
		Features:      r.Features,
		Yanked:        r.Yanked,
		Links:         r.Links,
		SchemaVersion: r.SchemaVersion,
		Features2:     r.Features2,
		Dependencies:  make([]dependencyView, len(r.Dependencies)),
	}
	if r.Version != nil {
		v.Version = r.Version.String()
	}
	if r.RustVersion != nil {
		v.RustVersion = r.RustVersion.String()
	}
	for i, d := range r.Dependencies {
		v.Dependencies[i] = dependencyView{
			Name:            d.Name,
			Req:             d.Req.String(),
			Features:        d.Features,
			Optional:        d.Optional,
			DefaultFeatures: d.DefaultFeatures,
			Target:          d.Target,
			Kind:            d.Kind,
			Registry:        d.Registry,
			Package:         d.Package,
		}
	}
	return v
}
