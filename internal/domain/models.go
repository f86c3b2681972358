package domain

import "time"

// Format identifies an archive container format
type Format string

const (
	FormatZip     Format = "zip"
	FormatRar     Format = "rar"
	Format7z      Format = "7z"
	FormatTar     Format = "tar"
	FormatTarGz   Format = "tar.gz"
	FormatTarBz2  Format = "tar.bz2"
	FormatTarXz   Format = "tar.xz"
	FormatTarZst  Format = "tar.zst"
	FormatGz      Format = "gz"
	FormatBz2     Format = "bz2"
	FormatXz      Format = "xz"
	FormatZst     Format = "zst"
	FormatUnknown Format = "unknown"
)

// IsKnown reports whether the format was recognized. Unknown is a valid
// classification, not an error.
func (f Format) IsKnown() bool {
	return f != FormatUnknown && f != ""
}

// IsTarFamily reports whether the format is extracted by tar (plain or
// compressed).
func (f Format) IsTarFamily() bool {
	switch f {
	case FormatTar, FormatTarGz, FormatTarBz2, FormatTarXz, FormatTarZst,
		FormatGz, FormatBz2, FormatXz, FormatZst:
		return true
	}
	return false
}

// ArchiveInfo is an immutable snapshot of a detected archive. Produced only
// by the detector.
type ArchiveInfo struct {
	Path         string
	Format       Format
	Size         int64
	IsMultipart  bool
	PartIndex    int // numeric part index parsed from the filename; 0 when not multipart
	BaseName     string
	PatternIndex int // which multipart pattern matched; -1 when none
}

// Outcome is the terminal classification of a single extraction attempt.
// Values double as state list names.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
	OutcomeLocked  Outcome = "locked"
)

// Outcomes lists every valid outcome in state-file order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeSuccess, OutcomeFailed, OutcomeLocked, OutcomePartial}
}

// Valid reports whether o is one of the four terminal outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomePartial, OutcomeFailed, OutcomeLocked:
		return true
	}
	return false
}

// Tool is one entry of a per-format tool chain: a label for logging plus an
// argv template. Templates carry the placeholders {file}, {output} and
// {output_flag}.
type Tool struct {
	Name string   `yaml:"name" json:"name"`
	Argv []string `yaml:"command" json:"command"`
}

// ToolChains maps a format to the ordered list of tools tried for it.
type ToolChains map[Format][]Tool

// RunStatus classifies how an external tool invocation ended. Routine
// failures (missing binary, bad exit, timeout) are data, not errors.
type RunStatus int

const (
	RunOK RunStatus = iota
	RunExitError
	RunNotFound
	RunTimedOut
)

// String returns a short label for logging.
func (s RunStatus) String() string {
	switch s {
	case RunOK:
		return "ok"
	case RunExitError:
		return "exit_error"
	case RunNotFound:
		return "not_found"
	case RunTimedOut:
		return "timed_out"
	default:
		return "invalid"
	}
}

// Command describes one external tool invocation.
type Command struct {
	Argv    []string
	Dir     string
	Timeout time.Duration
}

// RunResult is the explicit result of one tool invocation.
type RunResult struct {
	Status   RunStatus
	ExitCode int
	Output   string // combined stdout+stderr, UTF-8, capped
	Duration time.Duration
}

// OK reports whether the tool exited successfully.
func (r RunResult) OK() bool {
	return r.Status == RunOK
}

// RunSummary aggregates one batch run for end-of-run reporting.
type RunSummary struct {
	Scanned int
	Skipped int
	Success int
	Partial int
	Failed  int
	Locked  int
	Elapsed time.Duration
}

// Record counts one outcome into the summary.
func (s *RunSummary) Record(o Outcome) {
	switch o {
	case OutcomeSuccess:
		s.Success++
	case OutcomePartial:
		s.Partial++
	case OutcomeFailed:
		s.Failed++
	case OutcomeLocked:
		s.Locked++
	}
}

// Processed returns the number of archives that reached a terminal outcome.
func (s *RunSummary) Processed() int {
	return s.Success + s.Partial + s.Failed + s.Locked
}
