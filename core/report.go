package core

import "time"

// State is the orchestrator state for one document run.
type State int

const (
	StateOpening State = iota
	StateDerivingOutputFolder
	StateIteratingChapters
	StateDone
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateDerivingOutputFolder:
		return "deriving-output-folder"
	case StateIteratingChapters:
		return "iterating-chapters"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status tags a chapter outcome.
type Status string

const (
	StatusWritten Status = "written"
	StatusSkipped Status = "skipped"
	// StatusPlanned marks a chapter that a dry run would have written.
	StatusPlanned Status = "planned"
)

// Outcome is the result of processing one chapter.
type Outcome struct {
	Status    Status        `json:"status"`
	Ordinal   int           `json:"ordinal,omitempty"`
	ChapterID string        `json:"chapter_id"`
	Title     string        `json:"title,omitempty"`
	Stage     Stage         `json:"stage,omitempty"`
	Path      string        `json:"path,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Bytes     int           `json:"bytes,omitempty"`
	Cached    bool          `json:"cached,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Report folds the outcomes of one document run.
type Report struct {
	Source     string    `json:"source"`
	Title      string    `json:"title"`
	OutputDir  string    `json:"output_dir"`
	Width      int       `json:"width"`
	State      State     `json:"state"`
	Outcomes   []Outcome `json:"outcomes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Written returns the outcomes that produced an audio file.
func (r *Report) Written() []Outcome {
	return r.filter(StatusWritten)
}

// Skipped returns the outcomes of chapters that produced no audio.
func (r *Report) Skipped() []Outcome {
	return r.filter(StatusSkipped)
}

// Planned returns the outcomes a dry run would have written.
func (r *Report) Planned() []Outcome {
	return r.filter(StatusPlanned)
}

// Bytes returns the total audio bytes written.
func (r *Report) Bytes() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.Bytes
	}
	return total
}

func (r *Report) filter(s Status) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}
