package manifest

import (
	"fmt"
	"regexp"

	"github.com/archivekit/extractall-go/internal/domain"
)

// Config represents the complete toolchain manifest
type Config struct {
	// Toolchains maps a format name (zip, rar, 7z, tar) to its ordered
	// extraction tool entries. Tar-family variants all run under "tar".
	Toolchains map[string][]domain.Tool `yaml:"toolchains" json:"toolchains"`
	Options    Options                  `yaml:"options" json:"options"`
}

// Options represents global manifest options
type Options struct {
	// Extend keeps the builtin chains and tries manifest entries before
	// them; false replaces the builtin chain for each listed format
	Extend bool `yaml:"extend" json:"extend"`

	// TimeoutSeconds overrides the per-tool timeout when positive
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// chainFormats are the format keys a manifest may configure, matching
// the handler registry's table.
var chainFormats = map[string]domain.Format{
	"zip": domain.FormatZip,
	"rar": domain.FormatRar,
	"7z":  domain.Format7z,
	"tar": domain.FormatTar,
}

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// knownPlaceholders are the substitutions command templates may carry.
var knownPlaceholders = map[string]bool{
	"{file}":        true,
	"{output}":      true,
	"{output_flag}": true,
}

// Validate validates the manifest configuration
func (c *Config) Validate() error {
	if len(c.Toolchains) == 0 {
		return ErrNoChains
	}

	for key, chain := range c.Toolchains {
		if _, ok := chainFormats[key]; !ok {
			return fmt.Errorf("toolchain %q: %w", key, ErrUnknownFormat)
		}
		if len(chain) == 0 {
			return fmt.Errorf("toolchain %q: %w", key, ErrEmptyChain)
		}
		for i, tool := range chain {
			if len(tool.Argv) == 0 {
				return fmt.Errorf("toolchain %q entry %d: %w", key, i, ErrEmptyCommand)
			}
			for _, token := range tool.Argv {
				for _, ph := range placeholderRe.FindAllString(token, -1) {
					if !knownPlaceholders[ph] {
						return fmt.Errorf("toolchain %q entry %d: %q: %w", key, i, ph, ErrBadPlaceholder)
					}
				}
			}
		}
	}

	return nil
}

// ToolChains converts the manifest into the domain mapping consumed by
// the strategy chain and handler registry
func (c *Config) ToolChains() domain.ToolChains {
	chains := make(domain.ToolChains, len(c.Toolchains))
	for key, chain := range c.Toolchains {
		format, ok := chainFormats[key]
		if !ok {
			continue
		}
		chains[format] = append([]domain.Tool(nil), chain...)
	}
	return chains
}

// Merge combines the manifest chains with the builtin defaults. With
// extend set, manifest entries run before the retained defaults; without
// it, each listed format's chain is replaced outright. Formats the
// manifest does not mention always keep their defaults.
func (c *Config) Merge(defaults domain.ToolChains) domain.ToolChains {
	merged := make(domain.ToolChains, len(defaults))
	for format, chain := range defaults {
		merged[format] = append([]domain.Tool(nil), chain...)
	}

	for format, chain := range c.ToolChains() {
		if c.Options.Extend {
			merged[format] = append(chain, merged[format]...)
		} else {
			merged[format] = chain
		}
	}

	return merged
}
