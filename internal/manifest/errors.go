package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNoChains indicates the manifest defines no tool chains
	ErrNoChains = errors.New("manifest must define at least one toolchain")

	// ErrUnknownFormat indicates a toolchain key that no handler serves
	ErrUnknownFormat = errors.New("no handler for toolchain format")

	// ErrEmptyChain indicates a toolchain with no entries
	ErrEmptyChain = errors.New("toolchain cannot be empty")

	// ErrEmptyCommand indicates a toolchain entry without a command
	ErrEmptyCommand = errors.New("toolchain entry command cannot be empty")

	// ErrBadPlaceholder indicates an unrecognized {placeholder} in a command
	ErrBadPlaceholder = errors.New("unrecognized placeholder in command")

	// ErrInvalidFormat indicates the manifest file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
