package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
)

var indexFiles = map[string]string{
	"se/rd/serde_json": `{"name":"serde_json","vers":"1.0.107","deps":[{"name":"serde","req":"^1.0.100","features":[],"optional":false,"default_features":true,"target":null,"kind":null},{"name":"itoa","req":"^1.0","features":[],"optional":false,"default_features":true,"target":null,"kind":null}],"cksum":"a","features":{},"yanked":false}
{"name":"serde_json","vers":"1.0.108","deps":[{"name":"serde","req":"^1.0.100","features":[],"optional":false,"default_features":true,"target":null,"kind":null},{"name":"itoa","req":"^1.0","features":[],"optional":false,"default_features":true,"target":null,"kind":null},{"name":"ghost","req":"^1","features":[],"optional":false,"default_features":true,"target":null,"kind":"dev"}],"cksum":"b","features":{},"yanked":false}
`,
	"se/rd/serde": `{"name":"serde","vers":"1.0.193","deps":[],"cksum":"c","features":{},"yanked":false}
`,
	"it/oa/itoa": `{"name":"itoa","vers":"1.0.9","deps":[],"cksum":"d","features":{},"yanked":false}
`,
	"3/b/bad": "not json\n",
}

// newIndex serves indexFiles the way a sparse index does.
func newIndex(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		body, ok := indexFiles[chi.URLParam(r, "*")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newServer(t *testing.T) *Server {
	t.Helper()
	idx := newIndex(t)
	return New(crates.NewClient("cargoquery-test", 0), Options{
		IndexURL: idx.URL,
		Logger:   log.New(io.Discard),
	})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type releaseJSON struct {
	Name string `json:"name"`
	Vers string `json:"vers"`
}

func decodeReleases(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var rels []releaseJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rels))
	ids := make([]string, len(rels))
	for i, r := range rels {
		ids[i] = r.Name + "@" + r.Vers
	}
	return ids
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	rec := get(t, newServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	s := newServer(t)

	rec := get(t, s, "/healthz")
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestCrate(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"latest", "/v1/crates/serde_json", []string{"serde_json@1.0.108"}},
		{"requirement", "/v1/crates/" + url.PathEscape("serde_json@=1.0.107"), []string{"serde_json@1.0.107"}},
		{"recursive normal only", "/v1/crates/serde_json?recursive=true&kind=normal", []string{"serde_json@1.0.108", "serde@1.0.193", "itoa@1.0.9"}},
		{"max depth", "/v1/crates/serde_json@1.0.107?recursive=1&max_depth=1", []string{"serde_json@1.0.107", "serde@1.0.193", "itoa@1.0.9"}},
		{"ignore missing", "/v1/crates/serde_json?recursive=true&ignore_missing=true", []string{"serde_json@1.0.108", "serde@1.0.193", "itoa@1.0.9"}},
		{"nothing left", "/v1/crates/ghost?ignore_missing=true", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, decodeReleases(t, rec))
		})
	}
}

func TestCrateIndexParam(t *testing.T) {
	idx := newIndex(t)
	s := New(crates.NewClient("cargoquery-test", 0), Options{
		IndexURL: "ftp://unused.invalid",
		Logger:   log.New(io.Discard),
	})

	tests := []struct {
		name  string
		index string
	}{
		{"plain", idx.URL},
		{"sparse prefix", "sparse+" + idx.URL},
		{"sparse prefix and slash", "sparse+" + idx.URL + "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/v1/crates/serde?index="+url.QueryEscape(tt.index))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, []string{"serde@1.0.193"}, decodeReleases(t, rec))
		})
	}
}

func TestCrateErrors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		target string
		status int
		code   errs.Code
	}{
		{"bad requirement", "/v1/crates/" + url.PathEscape("serde@>>1"), http.StatusBadRequest, errs.ErrCodeInvalidVersion},
		{"bad flag", "/v1/crates/serde?recursive=maybe", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad depth", "/v1/crates/serde?max_depth=-2", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad index", "/v1/crates/serde?index=ftp://example.com", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad kind", "/v1/crates/serde?recursive=true&kind=normal&kind=bogus", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"sparse prefix on bad index", "/v1/crates/serde?index=" + url.QueryEscape("sparse+ftp://example.com"), http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"no match", "/v1/crates/" + url.PathEscape("serde@^2"), http.StatusNotFound, errs.ErrCodeNotFound},
		{"missing package", "/v1/crates/ghost", http.StatusNotFound, errs.ErrCodeNotFound},
		{"missing transitive", "/v1/crates/serde_json?recursive=true", http.StatusNotFound, errs.ErrCodeNotFound},
		{"malformed index", "/v1/crates/bad", http.StatusBadGateway, errs.ErrCodeDeserialize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestPath(t *testing.T) {
	s := newServer(t)

	rec := get(t, s, "/v1/path/Cargo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"ca/rg/cargo"}`, rec.Body.String())

	rec = get(t, s, "/v1/path/"+url.PathEscape(".."))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newServer(t), "/v2/anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeInvalidVersion, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeRequest, "x"), http.StatusBadGateway},
		{errs.New(errs.ErrCodeIO, "x"), http.StatusBadGateway},
		{errs.New(errs.ErrCodeSerialize, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{context.Canceled, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), "%v", tt.err)
	}
}
