package index

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Masterminds/semver/v3"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

// VersionReq is a Cargo version requirement such as "^0.1.0", ">=1.2, <1.5"
// or "=0.1.11".
//
// A bare version is a caret requirement, so "0.12" and "^0.12" are the same.
// The zero value matches every release and renders as "*".
//
// Pre-release versions follow Cargo rather than Masterminds: one matches
// only if it is in range and some comparator names a pre-release of the
// same major.minor.patch. So "^0.3.0-alpha.1" accepts 0.3.0-beta but not
// 0.3.5-beta.2.
//
// VersionReq keeps the text it was parsed from. Encoding a requirement back
// to JSON or to a string reproduces that text, not a normalised form.
type VersionReq struct {
	raw         string
	constraints *semver.Constraints
	preCores    []versionCore
}

// versionCore is the major.minor.patch of a comparator naming a pre-release.
type versionCore struct {
	major, minor, patch uint64
}

// ParseVersionReq parses a Cargo requirement string.
// A malformed requirement returns an INVALID_VERSION error.
func ParseVersionReq(s string) (VersionReq, error) {
	expr, preCores, err := translateReq(s)
	if err != nil {
		return VersionReq{}, errs.Wrap(errs.ErrCodeInvalidVersion, err, "invalid version requirement %q", s)
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return VersionReq{}, errs.Wrap(errs.ErrCodeInvalidVersion, err, "invalid version requirement %q", s)
	}
	return VersionReq{raw: s, constraints: c, preCores: preCores}, nil
}

// MustParseVersionReq is like [ParseVersionReq] but panics on error.
// It is intended for constants and tests.
func MustParseVersionReq(s string) VersionReq {
	r, err := ParseVersionReq(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Matches reports whether v satisfies the requirement.
// A nil version never matches.
func (r VersionReq) Matches(v *semver.Version) bool {
	if v == nil {
		return false
	}
	if r.constraints == nil {
		return true
	}
	if v.Prerelease() != "" && !r.allowsPrerelease(v) {
		return false
	}
	return r.constraints.Check(v)
}

func (r VersionReq) allowsPrerelease(v *semver.Version) bool {
	core := versionCore{v.Major(), v.Minor(), v.Patch()}
	for _, c := range r.preCores {
		if c == core {
			return true
		}
	}
	return false
}

// IsZero reports whether r is the match-anything zero value.
func (r VersionReq) IsZero() bool { return r.constraints == nil }

// String returns the requirement as originally written.
func (r VersionReq) String() string {
	if r.constraints == nil {
		return "*"
	}
	return r.raw
}

// MarshalJSON encodes the requirement as its original string. Comparison
// operators are written as is, not as \u003e escapes.
func (r VersionReq) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.String()); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes a requirement string.
func (r *VersionReq) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVersionReq(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes the requirement as its original string.
func (r VersionReq) MarshalYAML() (any, error) {
	return r.String(), nil
}

// translateReq rewrites a Cargo requirement into Masterminds constraint
// syntax. Comparators are comma separated in both; the differences are that
// Cargo reads a bare version as caret and has no "||". Bare wildcards such as
// "1.2.*" already mean the same thing in both and are left alone.
//
// It also returns the cores of comparators that name a pre-release.
func translateReq(s string) (string, []versionCore, error) {
	if strings.Contains(s, "||") {
		return "", nil, errs.New(errs.ErrCodeInvalidVersion, "alternatives (||) are not supported")
	}
	var preCores []versionCore
	parts := strings.Split(s, ",")
	for i, p := range parts {
		p = strings.Join(strings.Fields(p), "")
		if p == "" {
			return "", nil, errs.New(errs.ErrCodeInvalidVersion, "empty comparator")
		}
		if p[0] >= '0' && p[0] <= '9' && !strings.Contains(p, "*") {
			p = "^" + p
		}
		if ver := strings.TrimLeft(p, "=<>~^"); strings.Contains(ver, "-") {
			v, err := semver.NewVersion(ver)
			if err != nil {
				return "", nil, err
			}
			preCores = append(preCores, versionCore{v.Major(), v.Minor(), v.Patch()})
		}
		parts[i] = p
	}
	return strings.Join(parts, ", "), preCores, nil
}
