// Package handlers provides per-format archive handlers: bundles of
// identification rules and ordered command templates for extracting,
// testing and listing archives with external tools. A handler never
// parses archive bytes itself; everything goes through the runner.
package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/archivekit/extractall-go/internal/detect"
	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

// probeTimeoutCap bounds test and list commands, which only need to
// read archive metadata.
const probeTimeoutCap = 10 * time.Second

// Handler serves a single archive format
type Handler struct {
	format     domain.Format
	extensions []string
	extract    [][]string
	test       [][]string
	list       [][]string
	outputFlag []string
	parse      func(string) []string

	runner  domain.CommandRunner
	logger  *utils.Logger
	timeout time.Duration
}

// Format returns the format this handler serves
func (h *Handler) Format() domain.Format { return h.format }

// Extensions returns the filename extensions this handler recognizes
func (h *Handler) Extensions() []string {
	return append([]string(nil), h.extensions...)
}

// Signatures returns the content signatures for this handler's format
func (h *Handler) Signatures() []detect.Signature {
	return detect.SignaturesFor(h.format)
}

// CanHandle reports whether the file looks like this handler's format,
// by extension first and content signature second.
func (h *Handler) CanHandle(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}

	name := strings.ToLower(filepath.Base(path))
	for _, ext := range h.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return detect.MatchesFormat(path, h.format)
}

// Extract runs the extraction templates in order and reports whether
// any tool succeeded. The destination directory is created on demand.
func (h *Handler) Extract(ctx context.Context, path, dest string) bool {
	if err := utils.EnsureDir(dest); err != nil {
		h.logger.Error().Err(err).Str("dir", dest).Msg("Failed to create extraction directory")
		return false
	}

	for _, tpl := range h.extract {
		argv := ExpandTemplate(tpl, path, dest, h.outputFlag)
		result := h.runner.Run(ctx, domain.Command{Argv: argv, Timeout: h.timeout})
		if result.OK() {
			h.logger.Debug().
				Str("tool", argv[0]).
				Str("archive", path).
				Msg("Extraction succeeded")
			return true
		}
		h.logger.Debug().
			Str("tool", argv[0]).
			Str("status", result.Status.String()).
			Msg("Extraction attempt failed")
	}

	return false
}

// TestArchive runs the integrity-check templates, reporting true on
// the first tool that verifies the archive.
func (h *Handler) TestArchive(ctx context.Context, path string) bool {
	for _, tpl := range h.test {
		argv := ExpandTemplate(tpl, path, ".", h.outputFlag)
		result := h.runner.Run(ctx, domain.Command{Argv: argv, Timeout: h.probeTimeout()})
		if result.OK() {
			return true
		}
	}
	return false
}

// ListContents returns the entry names reported by the first listing
// tool that succeeds, or nothing when every tool fails.
func (h *Handler) ListContents(ctx context.Context, path string) []string {
	for _, tpl := range h.list {
		argv := ExpandTemplate(tpl, path, ".", h.outputFlag)
		result := h.runner.Run(ctx, domain.Command{Argv: argv, Timeout: h.probeTimeout()})
		if result.OK() {
			return h.parse(result.Output)
		}
	}
	return nil
}

func (h *Handler) probeTimeout() time.Duration {
	if h.timeout < probeTimeoutCap {
		return h.timeout
	}
	return probeTimeoutCap
}
