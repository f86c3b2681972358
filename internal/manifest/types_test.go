package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivekit/extractall-go/internal/domain"
)

func validConfig() *Config {
	return &Config{
		Toolchains: map[string][]domain.Tool{
			"zip": {
				{Name: "unzip", Argv: []string{"unzip", "-q", "-o", "{file}", "{output_flag}"}},
			},
		},
	}
}

func TestConfig_Validate_NoChains(t *testing.T) {
	cfg := &Config{Toolchains: map[string][]domain.Tool{}}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrNoChains)
}

func TestConfig_Validate_UnknownFormat(t *testing.T) {
	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"cab": {{Name: "cabextract", Argv: []string{"cabextract", "{file}"}}},
		},
	}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "cab")
}

func TestConfig_Validate_EmptyChain(t *testing.T) {
	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"zip": {},
		},
	}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestConfig_Validate_EmptyCommand(t *testing.T) {
	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"rar": {{Name: "unrar"}},
		},
	}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestConfig_Validate_BadPlaceholder(t *testing.T) {
	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"7z": {{Name: "7z", Argv: []string{"7z", "x", "{archive}", "-o{output}"}}},
		},
	}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrBadPlaceholder)
	assert.Contains(t, err.Error(), "{archive}")
}

func TestConfig_Validate_AllPlaceholdersAccepted(t *testing.T) {
	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"zip": {{Argv: []string{"unzip", "{file}", "{output_flag}"}}},
			"7z":  {{Argv: []string{"7z", "x", "{file}", "-o{output}", "-y"}}},
			"tar": {{Argv: []string{"tar", "-xf", "{file}", "-C", "{output}"}}},
		},
	}

	assert.NoError(t, cfg.Validate())
}

func TestConfig_ToolChains(t *testing.T) {
	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"zip": {{Name: "unzip", Argv: []string{"unzip", "{file}"}}},
			"tar": {{Name: "tar", Argv: []string{"tar", "-xf", "{file}"}}},
		},
	}

	chains := cfg.ToolChains()

	require.Len(t, chains, 2)
	require.Len(t, chains[domain.FormatZip], 1)
	assert.Equal(t, "unzip", chains[domain.FormatZip][0].Name)
	require.Len(t, chains[domain.FormatTar], 1)
	assert.Equal(t, "tar", chains[domain.FormatTar][0].Name)
}

func TestConfig_Merge_Replace(t *testing.T) {
	defaults := domain.ToolChains{
		domain.FormatZip: {
			{Name: "unzip", Argv: []string{"unzip", "{file}"}},
			{Name: "7z", Argv: []string{"7z", "x", "{file}"}},
		},
		domain.FormatRar: {
			{Name: "unrar", Argv: []string{"unrar", "x", "{file}"}},
		},
	}

	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"zip": {{Name: "custom", Argv: []string{"myzip", "{file}", "{output}"}}},
		},
	}

	merged := cfg.Merge(defaults)

	// The listed format is replaced outright
	require.Len(t, merged[domain.FormatZip], 1)
	assert.Equal(t, "custom", merged[domain.FormatZip][0].Name)

	// Unlisted formats keep their defaults
	require.Len(t, merged[domain.FormatRar], 1)
	assert.Equal(t, "unrar", merged[domain.FormatRar][0].Name)
}

func TestConfig_Merge_Extend(t *testing.T) {
	defaults := domain.ToolChains{
		domain.FormatZip: {
			{Name: "unzip", Argv: []string{"unzip", "{file}"}},
		},
	}

	cfg := &Config{
		Toolchains: map[string][]domain.Tool{
			"zip": {{Name: "preferred", Argv: []string{"myzip", "{file}", "{output}"}}},
		},
		Options: Options{Extend: true},
	}

	merged := cfg.Merge(defaults)

	// Manifest entries run before the retained defaults
	require.Len(t, merged[domain.FormatZip], 2)
	assert.Equal(t, "preferred", merged[domain.FormatZip][0].Name)
	assert.Equal(t, "unzip", merged[domain.FormatZip][1].Name)
}

func TestConfig_Merge_DoesNotMutateDefaults(t *testing.T) {
	defaults := domain.ToolChains{
		domain.FormatZip: {
			{Name: "unzip", Argv: []string{"unzip", "{file}"}},
		},
	}

	cfg := validConfig()
	cfg.Options.Extend = true
	cfg.Merge(defaults)

	require.Len(t, defaults[domain.FormatZip], 1)
	assert.Equal(t, "unzip", defaults[domain.FormatZip][0].Name)
}
