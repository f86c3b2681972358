package state

import (
	"math"
	"time"

	"github.com/archivekit/extractall-go/internal/domain"
)

// SchemaVersion is written into the metadata block for forward
// migration
const SchemaVersion = "1.0"

// StateFileName is the state file kept in the input directory
const StateFileName = "extraction_state.json"

// State is the persisted per-file processing record: one superset list
// of everything ever handled plus one list per terminal outcome. Lists
// are append-only and duplicate-free; the statistics block is derived
// from their lengths and recomputed on every mutation, never trusted
// from disk.
type State struct {
	Processed []string `json:"processed"`
	Success   []string `json:"success"`
	Failed    []string `json:"failed"`
	Locked    []string `json:"locked"`
	Partial   []string `json:"partial"`

	Statistics Statistics `json:"statistics"`
	Metadata   Metadata   `json:"metadata"`

	// Extracted is the legacy name of the success list. It is drained
	// into Success by migration on load and never written back.
	Extracted []string `json:"extracted,omitempty"`
}

// Statistics aggregates the outcome lists
type Statistics struct {
	TotalProcessed int       `json:"total_processed"`
	TotalSuccess   int       `json:"total_success"`
	TotalFailed    int       `json:"total_failed"`
	TotalLocked    int       `json:"total_locked"`
	TotalPartial   int       `json:"total_partial"`
	SuccessRate    float64   `json:"success_rate"`
	LastRun        time.Time `json:"last_run"`
}

// Metadata carries file-level bookkeeping
type Metadata struct {
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"last_updated"`
	Version     string    `json:"version"`
}

// Report is the derived end-of-run view: statistics, the per-outcome
// file lists, and metadata
type Report struct {
	Statistics Statistics          `json:"statistics"`
	Files      map[string][]string `json:"files"`
	Metadata   Metadata            `json:"metadata"`
}

// NewState creates a fresh, empty state
func NewState() *State {
	now := time.Now()
	return &State{
		Processed: []string{},
		Success:   []string{},
		Failed:    []string{},
		Locked:    []string{},
		Partial:   []string{},
		Metadata: Metadata{
			Created:     now,
			LastUpdated: now,
			Version:     SchemaVersion,
		},
	}
}

// listFor returns the outcome list backing the given outcome, or nil
// for an invalid outcome
func (s *State) listFor(outcome domain.Outcome) *[]string {
	switch outcome {
	case domain.OutcomeSuccess:
		return &s.Success
	case domain.OutcomeFailed:
		return &s.Failed
	case domain.OutcomeLocked:
		return &s.Locked
	case domain.OutcomePartial:
		return &s.Partial
	}
	return nil
}

// IsProcessed reports whether the identity was ever recorded
func (s *State) IsProcessed(id string) bool {
	return contains(s.Processed, id)
}

// Mark records an outcome for the identity: it joins the processed
// superset and the outcome's list, each at most once. Marking the same
// identity twice changes nothing beyond the run timestamp.
func (s *State) Mark(id string, outcome domain.Outcome) {
	s.Processed = appendUnique(s.Processed, id)
	if list := s.listFor(outcome); list != nil {
		*list = appendUnique(*list, id)
	}
	s.RecomputeStats()
	s.Statistics.LastRun = time.Now()
}

// RecomputeStats rebuilds the statistics block from the current list
// lengths; last_run is left alone. The success rate is a percentage
// rounded to two decimals, zero when nothing was processed.
func (s *State) RecomputeStats() {
	s.Statistics = Statistics{
		TotalProcessed: len(s.Processed),
		TotalSuccess:   len(s.Success),
		TotalFailed:    len(s.Failed),
		TotalLocked:    len(s.Locked),
		TotalPartial:   len(s.Partial),
		LastRun:        s.Statistics.LastRun,
	}
	if s.Statistics.TotalProcessed > 0 {
		rate := float64(s.Statistics.TotalSuccess) / float64(s.Statistics.TotalProcessed) * 100
		s.Statistics.SuccessRate = math.Round(rate*100) / 100
	}
}

// migrate upgrades legacy content in-place: the deprecated extracted
// list drains into success first, then missing lists become empty so
// the file always carries every key. Order matters; defaulting before
// the rename would make the rename a no-op.
func (s *State) migrate() {
	for _, id := range s.Extracted {
		s.Success = appendUnique(s.Success, id)
	}
	s.Extracted = nil

	for _, list := range []*[]string{&s.Processed, &s.Success, &s.Failed, &s.Locked, &s.Partial} {
		if *list == nil {
			*list = []string{}
		}
	}

	if s.Metadata.Version == "" {
		s.Metadata.Version = SchemaVersion
	}
	if s.Metadata.Created.IsZero() {
		s.Metadata.Created = time.Now()
	}
}

// Report assembles the derived report view of this state
func (s *State) Report() *Report {
	return s.buildReport()
}

// buildReport assembles the derived report view
func (s *State) buildReport() *Report {
	return &Report{
		Statistics: s.Statistics,
		Files: map[string][]string{
			string(domain.OutcomeSuccess): append([]string{}, s.Success...),
			string(domain.OutcomeFailed):  append([]string{}, s.Failed...),
			string(domain.OutcomeLocked):  append([]string{}, s.Locked...),
			string(domain.OutcomePartial): append([]string{}, s.Partial...),
		},
		Metadata: s.Metadata,
	}
}

func contains(list []string, id string) bool {
	for _, entry := range list {
		if entry == id {
			return true
		}
	}
	return false
}

func appendUnique(list []string, id string) []string {
	if contains(list, id) {
		return list
	}
	return append(list, id)
}
