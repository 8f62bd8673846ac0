package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

// debugHooks logs resolver and HTTP events at debug level. It is installed
// by --verbose.
type debugHooks struct {
	logger *log.Logger
}

func newDebugHooks(l *log.Logger) *debugHooks {
	return &debugHooks{logger: l}
}

func (h *debugHooks) OnResolveStart(_ context.Context, specs []string) {
	h.logger.Debug("resolve start", "specs", strings.Join(specs, " "))
}

func (h *debugHooks) OnResolveComplete(_ context.Context, _ []string, releases int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "releases", releases, "duration", d.Round(time.Millisecond), "err", errs.UserMessage(err))
		return
	}
	h.logger.Debug("resolve done", "releases", releases, "duration", d.Round(time.Millisecond))
}

func (h *debugHooks) OnRelease(_ context.Context, id string, depth int) {
	h.logger.Debug("release", "id", id, "depth", depth)
}

func (h *debugHooks) OnSkip(_ context.Context, spec string, err error) {
	if err != nil {
		h.logger.Debug("skip", "spec", spec, "err", errs.UserMessage(err))
		return
	}
	h.logger.Debug("skip", "spec", spec, "reason", "no matching release")
}

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
