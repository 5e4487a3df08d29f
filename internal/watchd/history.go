package watchd

import (
	"slices"
	"sync"
	"time"
)

// defaultHistoryLimit bounds the retained run records when the config does
// not say otherwise.
const defaultHistoryLimit = 50

// RunRecord captures the outcome of one catalog run for the API and status
// surfaces.
type RunRecord struct {
	RunID      string        `json:"run_id,omitempty"`
	Catalog    string        `json:"catalog"`
	OutputPath string        `json:"output_path,omitempty"`
	Objects    int           `json:"objects,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// Failed reports whether the run ended in an error.
func (r RunRecord) Failed() bool {
	return r.Error != ""
}

// History keeps the most recent run records, newest first, bounded so a
// long-lived daemon cannot grow without bound.
type History struct {
	mu       sync.Mutex
	limit    int
	records  []RunRecord
	runs     int
	failures int
}

// NewHistory returns a history bounded to limit records.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add records a finished run.
func (h *History) Add(rec RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs++
	if rec.Failed() {
		h.failures++
	}
	h.records = append([]RunRecord{rec}, h.records...)
	if len(h.records) > h.limit {
		h.records = h.records[:h.limit]
	}
}

// Recent returns a copy of the retained records, newest first.
func (h *History) Recent() []RunRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.records)
}

// Last returns the most recent record.
func (h *History) Last() (RunRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) == 0 {
		return RunRecord{}, false
	}
	return h.records[0], true
}

// Counts returns how many runs finished and how many of those failed, over
// the daemon's lifetime rather than the retained window.
func (h *History) Counts() (runs, failures int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs, h.failures
}
