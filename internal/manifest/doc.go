// Package manifest provides types and utilities for loading and
// validating toolchain manifest files. A manifest overrides or extends
// the per-format chains of external extraction tools, so deployments
// can prefer site-local tools without a rebuild.
//
// # Manifest Format
//
// Manifests can be written in YAML or JSON format:
//
//	toolchains:
//	  zip:
//	    - name: unzip
//	      command: [unzip, -q, -o, "{file}", "{output_flag}"]
//	    - command: ["7z", "x", "{file}", "-o{output}", "-y"]
//	  rar:
//	    - command: [unrar, x, -y, "{file}", "{output}"]
//	options:
//	  extend: true
//	  timeout_seconds: 120
//
// Commands are argv templates carrying the placeholders {file},
// {output} and {output_flag}. An entry without a name is labeled by
// its argv head. With extend set, manifest entries are tried before
// the builtin chain; otherwise they replace it for that format.
//
// # Usage
//
// Load a manifest file:
//
//	loader := manifest.NewLoader()
//	cfg, err := loader.Load("tools.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chains := cfg.Merge(strategies.DefaultToolChains())
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoChains: manifest defines no toolchains
//   - ErrUnknownFormat: toolchain key without a handler
//   - ErrEmptyChain: toolchain with no entries
//   - ErrEmptyCommand: entry with an empty command
//   - ErrBadPlaceholder: unrecognized {placeholder} in a command
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package manifest
