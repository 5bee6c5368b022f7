package sync

import "time"

// SyncError records one failed record (or a bulk failure keyed "sheet"/"db")
// inside a per-kind pass.
type SyncError struct {
	EntityID  string    `json:"entity_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Result aggregates one entity kind's pass. A row that fails to decode is
// skipped before counting; TotalProcessed only counts decodable records.
type Result struct {
	EntityType     string      `json:"entity_type"`
	TotalProcessed int         `json:"total_processed"`
	Inserted       int         `json:"inserted"`
	Updated        int         `json:"updated"`
	Errors         []SyncError `json:"errors"`
	StartedAt      time.Time   `json:"started_at"`
	CompletedAt    time.Time   `json:"completed_at"`
	DurationMs     int64       `json:"duration_ms"`
}

// NewResult starts the clock for one entity kind.
func NewResult(entityType string) *Result {
	now := time.Now().UTC()
	return &Result{
		EntityType: entityType,
		Errors:     []SyncError{},
		StartedAt:  now,
		CompletedAt: now,
	}
}

// AddError records a failure without aborting the pass.
func (r *Result) AddError(entityID, message string) {
	r.Errors = append(r.Errors, SyncError{
		EntityID:  entityID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// Finalize stamps the completion time and duration.
func (r *Result) Finalize() {
	r.CompletedAt = time.Now().UTC()
	r.DurationMs = r.CompletedAt.Sub(r.StartedAt).Milliseconds()
}

// IsSuccess reports whether the pass had no errors.
func (r *Result) IsSuccess() bool {
	return len(r.Errors) == 0
}

// Summary aggregates the per-kind results of one directional run.
type Summary struct {
	Direction       string    `json:"direction"`
	Results         []*Result `json:"results"`
	TotalDurationMs int64     `json:"total_duration_ms"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// NewSummary starts the clock for one directional run.
func NewSummary(direction string) *Summary {
	now := time.Now().UTC()
	return &Summary{
		Direction:   direction,
		Results:     []*Result{},
		StartedAt:   now,
		CompletedAt: now,
	}
}

// Add appends one kind's result.
func (s *Summary) Add(r *Result) {
	s.Results = append(s.Results, r)
}

// Finalize stamps the completion time and total duration.
func (s *Summary) Finalize() {
	s.CompletedAt = time.Now().UTC()
	s.TotalDurationMs = s.CompletedAt.Sub(s.StartedAt).Milliseconds()
}

// TotalProcessed sums processed records across kinds.
func (s *Summary) TotalProcessed() int {
	total := 0
	for _, r := range s.Results {
		total += r.TotalProcessed
	}
	return total
}

// TotalInserted sums inserted records across kinds.
func (s *Summary) TotalInserted() int {
	total := 0
	for _, r := range s.Results {
		total += r.Inserted
	}
	return total
}

// TotalUpdated sums updated records across kinds.
func (s *Summary) TotalUpdated() int {
	total := 0
	for _, r := range s.Results {
		total += r.Updated
	}
	return total
}

// TotalErrors sums errors across kinds.
func (s *Summary) TotalErrors() int {
	total := 0
	for _, r := range s.Results {
		total += len(r.Errors)
	}
	return total
}

// IsSuccess reports whether every kind's pass was error-free.
func (s *Summary) IsSuccess() bool {
	for _, r := range s.Results {
		if !r.IsSuccess() {
			return false
		}
	}
	return true
}
