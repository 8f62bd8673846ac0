package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
)

// ReadJSON decodes full-shape JSON output back into releases.
//
// The input is either a single release object or an array of them, as
// written by [Encode] with ShapeFull and FormatJSON. Index records (one
// object) are accepted as well. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]*index.Release, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read releases")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errs.New(errs.ErrCodeDeserialize, "no releases in input")
	}

	var releases []*index.Release
	if data[0] == '[' {
		err = json.Unmarshal(data, &releases)
	} else {
		var rel index.Release
		err = json.Unmarshal(data, &rel)
		releases = []*index.Release{&rel}
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDeserialize, err, "decode releases")
	}
	for i, rel := range releases {
		if rel == nil || rel.Name == "" || rel.Version == nil {
			return nil, errs.New(errs.ErrCodeDeserialize, "release %d: missing name or vers", i)
		}
	}
	return releases, nil
}

// ReadFile decodes the releases stored in the file at path.
// See [ReadJSON].
func ReadFile(path string) ([]*index.Release, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
