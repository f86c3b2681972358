package handlers

import (
	"sort"
	"time"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

const defaultTimeout = 5 * time.Minute

// Options contains options for creating a Registry
type Options struct {
	Runner  domain.CommandRunner
	Logger  *utils.Logger
	Timeout time.Duration

	// Chains overrides the builtin extraction templates per format,
	// typically loaded from a toolchain manifest. Test and list
	// templates always stay builtin.
	Chains domain.ToolChains
}

// Registry maps archive formats to their handlers. The table is built
// once here and passed by reference into the orchestrator; there is no
// package-global registry.
type Registry struct {
	handlers map[domain.Format]*Handler
	order    []domain.Format
	logger   *utils.Logger
}

type handlerSpec struct {
	format     domain.Format
	extensions []string
	extract    [][]string
	test       [][]string
	list       [][]string
	parse      func(string) []string
}

// handlerTable declares the builtin handlers. Extraction templates
// mirror the default tool chains; test and list templates run
// metadata-only commands.
func handlerTable() []handlerSpec {
	return []handlerSpec{
		{
			format:     domain.FormatZip,
			extensions: []string{".zip"},
			extract: [][]string{
				{"unzip", "-q", "-o", "{file}", "{output_flag}"},
				{"7z", "x", "{file}", "-o{output}", "-y"},
				{"python3", "-m", "zipfile", "-e", "{file}", "{output}"},
			},
			test: [][]string{
				{"unzip", "-t", "{file}"},
				{"7z", "t", "{file}"},
			},
			list: [][]string{
				{"unzip", "-l", "{file}"},
			},
			parse: parseUnzipList,
		},
		{
			format:     domain.FormatRar,
			extensions: []string{".rar"},
			extract: [][]string{
				{"unrar", "x", "-y", "{file}", "{output}"},
				{"7z", "x", "{file}", "-o{output}", "-y"},
			},
			test: [][]string{
				{"unrar", "t", "{file}"},
				{"7z", "t", "{file}"},
			},
			list: [][]string{
				{"unrar", "lb", "{file}"},
				{"7z", "l", "-ba", "{file}"},
			},
			parse: parseLines,
		},
		{
			format:     domain.Format7z,
			extensions: []string{".7z"},
			extract: [][]string{
				{"7z", "x", "{file}", "-o{output}", "-y"},
				{"7z", "x", "-tzip", "{file}", "-o{output}", "-y"},
			},
			test: [][]string{
				{"7z", "t", "{file}"},
			},
			list: [][]string{
				{"7z", "l", "-ba", "{file}"},
			},
			parse: parseLines,
		},
		{
			format: domain.FormatTar,
			extensions: []string{
				".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tbz2",
				".tar.xz", ".txz", ".tar.zst",
			},
			extract: [][]string{
				{"tar", "-xf", "{file}", "-C", "{output}"},
				{"7z", "x", "{file}", "-o{output}", "-y"},
			},
			test: [][]string{
				{"tar", "-tf", "{file}"},
			},
			list: [][]string{
				{"tar", "-tf", "{file}"},
			},
			parse: parseLines,
		},
	}
}

// NewRegistry builds the handler table
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	logger = logger.WithComponent("handlers")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	r := &Registry{
		handlers: make(map[domain.Format]*Handler),
		logger:   logger,
	}

	for _, spec := range handlerTable() {
		h := &Handler{
			format:     spec.format,
			extensions: spec.extensions,
			extract:    spec.extract,
			test:       spec.test,
			list:       spec.list,
			outputFlag: defaultOutputFlag,
			parse:      spec.parse,
			runner:     opts.Runner,
			logger:     logger,
			timeout:    timeout,
		}

		if chain, ok := opts.Chains[spec.format]; ok && len(chain) > 0 {
			h.extract = chainTemplates(chain)
		}

		r.handlers[spec.format] = h
		r.order = append(r.order, spec.format)
		logger.Debug().Str("format", string(spec.format)).Msg("Registered handler")
	}

	return r
}

// chainTemplates converts manifest tool chains into command templates
func chainTemplates(chain []domain.Tool) [][]string {
	templates := make([][]string, 0, len(chain))
	for _, tool := range chain {
		templates = append(templates, append([]string(nil), tool.Argv...))
	}
	return templates
}

// Get returns the handler for a format, or nil when the format has no
// handler. Tar-family variants resolve to the tar handler.
func (r *Registry) Get(format domain.Format) *Handler {
	if format.IsTarFamily() {
		format = domain.FormatTar
	}
	return r.handlers[format]
}

// ForPath returns the first handler claiming the path, or nil
func (r *Registry) ForPath(path string) *Handler {
	for _, format := range r.order {
		if h := r.handlers[format]; h.CanHandle(path) {
			return h
		}
	}
	return nil
}

// Formats returns the formats with a registered handler, in
// registration order
func (r *Registry) Formats() []domain.Format {
	return append([]domain.Format(nil), r.order...)
}

// SupportedExtensions returns the union of all handler extensions, sorted
func (r *Registry) SupportedExtensions() []string {
	var exts []string
	for _, format := range r.order {
		exts = append(exts, r.handlers[format].extensions...)
	}
	sort.Strings(exts)
	return exts
}
