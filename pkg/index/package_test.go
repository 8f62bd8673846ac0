package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

func readIndex(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestParse_Libc(t *testing.T) {
	pkg, err := Parse(readIndex(t, "libc.index"))
	require.NoError(t, err)

	assert.Equal(t, "libc", pkg.Name())
	assert.Equal(t, "li/bc/libc", pkg.IndexPath())
	assert.Equal(t, []string{"0.1.8", "0.1.11", "0.1.12"}, pkg.Versions())
}

func TestPackage_Latest(t *testing.T) {
	pkg, err := Parse(readIndex(t, "libc.index"))
	require.NoError(t, err)

	latest := pkg.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "0.1.12", latest.Version.String())
}

func TestPackage_Matching(t *testing.T) {
	pkg, err := Parse(readIndex(t, "libc.index"))
	require.NoError(t, err)

	tests := []struct {
		req        string
		want       string
		wantYanked bool
	}{
		{req: "^0.1.0", want: "0.1.12"},
		{req: "0.1.0", want: "0.1.12"},
		{req: "<0.1.12", want: "0.1.11", wantYanked: true},
		{req: "=0.1.11", want: "0.1.11", wantYanked: true},
		{req: "=0.1.8", want: "0.1.8"},
		{req: "^1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.req, func(t *testing.T) {
			rel := pkg.Matching(MustParseVersionReq(tt.req))
			if tt.want == "" {
				assert.Nil(t, rel)
				return
			}
			require.NotNil(t, rel)
			assert.Equal(t, tt.want, rel.Version.String())
			assert.Equal(t, tt.wantYanked, rel.Yanked)
		})
	}
}

func TestPackage_MatchingUsesFileOrder(t *testing.T) {
	// A backport published after a newer minor: the newest matching line wins.
	raw := `{"name":"x","vers":"0.1.0","deps":[],"cksum":"","features":{},"yanked":false}
{"name":"x","vers":"0.2.0","deps":[],"cksum":"","features":{},"yanked":false}
{"name":"x","vers":"0.1.1","deps":[],"cksum":"","features":{},"yanked":false}`
	pkg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "0.1.1", pkg.Matching(MustParseVersionReq("^0.1")).Version.String())
	assert.Equal(t, "0.1.1", pkg.Latest().Version.String())
}

func TestPackage_MatchingPrerelease(t *testing.T) {
	raw := `{"name":"tokio","vers":"0.3.0-alpha.1","deps":[],"cksum":"","features":{},"yanked":false}
{"name":"tokio","vers":"0.3.0","deps":[],"cksum":"","features":{},"yanked":false}
{"name":"tokio","vers":"0.3.5-beta.2","deps":[],"cksum":"","features":{},"yanked":false}`
	pkg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "0.3.0", pkg.Matching(MustParseVersionReq("^0.3.0-alpha.1")).Version.String())
	assert.Equal(t, "0.3.0-alpha.1", pkg.Matching(MustParseVersionReq("=0.3.0-alpha.1")).Version.String())
	assert.Equal(t, "0.3.5-beta.2", pkg.Matching(MustParseVersionReq("^0.3.5-beta")).Version.String())
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "\n", "  \n\n \t\n"} {
		_, err := Parse(raw)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCodeEmptyIndex), "got %v", err)
	}
}

func TestParse_BadLine(t *testing.T) {
	raw := `{"name":"x","vers":"0.1.0","deps":[],"cksum":"","features":{},"yanked":false}

{"name":"x","vers":`
	_, err := Parse(raw)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeDeserialize))
	assert.Contains(t, err.Error(), "index line 3")
}

func TestParse_BadVersion(t *testing.T) {
	_, err := Parse(`{"name":"x","vers":"one","deps":[],"cksum":"","features":{},"yanked":false}`)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeDeserialize))
}

func TestParse_BadRequirement(t *testing.T) {
	_, err := Parse(`{"name":"x","vers":"1.0.0","deps":[{"name":"y","req":"^^1","features":[],"optional":false,"default_features":true,"target":null,"kind":"normal"}],"cksum":"","features":{},"yanked":false}`)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeDeserialize))
}

func TestParse_MissingName(t *testing.T) {
	_, err := Parse(`{"vers":"1.0.0","deps":[],"cksum":"","features":{},"yanked":false}`)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeDeserialize))
}

func TestParse_NameFromNewestRelease(t *testing.T) {
	raw := `{"name":"Inflector","vers":"0.1.0","deps":[],"cksum":"","features":{},"yanked":false}
{"name":"inflector","vers":"0.2.0","deps":[],"cksum":"","features":{},"yanked":false}`
	pkg, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "inflector", pkg.Name())
	assert.Equal(t, "in/fl/inflector", pkg.IndexPath())
}

func TestParseReader(t *testing.T) {
	pkg, err := ParseReader(strings.NewReader(readIndex(t, "libc.index")))
	require.NoError(t, err)
	assert.Len(t, pkg.Releases(), 3)
}

func TestNewPackage_Empty(t *testing.T) {
	_, err := NewPackage(nil)
	assert.True(t, errs.Is(err, errs.ErrCodeEmptyIndex))
}

func TestPackage_EmptyIsTotal(t *testing.T) {
	var pkg Package
	assert.Nil(t, pkg.Latest())
	assert.Nil(t, pkg.Matching(MustParseVersionReq("*")))
}
