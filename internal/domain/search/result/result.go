package result

import (
	"fmt"
	"time"
)

// Kind distinguishes exact and fuzzy match records.
type Kind string

// Match kinds.
const (
	// Exact records hold keyword occurrence counts; higher score ranks first.
	Exact Kind = "exact"
	// Fuzzy records hold keyword edit distances; lower score ranks first.
	Fuzzy Kind = "fuzzy"
)

// Record maps keyword to occurrence count (exact) or edit distance (fuzzy).
// A record is exclusively one kind; score is the sum of its entries.
type Record struct {
	kind    Kind
	entries map[string]int
	score   int
}

// NewExact builds an exact record. Zero counts are dropped so only matched
// keywords appear; negative counts are rejected.
func NewExact(counts map[string]int) (Record, error) {
	entries := make(map[string]int, len(counts))
	score := 0
	for k, n := range counts {
		if n < 0 {
			return Record{}, fmt.Errorf("negative count %d for keyword %q", n, k)
		}
		if n == 0 {
			continue
		}
		entries[k] = n
		score += n
	}
	return Record{kind: Exact, entries: entries, score: score}, nil
}

// NewFuzzy builds a fuzzy record. Every distance must lie in [0, limit].
func NewFuzzy(distances map[string]int, limit int) (Record, error) {
	entries := make(map[string]int, len(distances))
	score := 0
	for k, d := range distances {
		if d < 0 || d > limit {
			return Record{}, fmt.Errorf("distance %d for keyword %q outside [0, %d]", d, k, limit)
		}
		entries[k] = d
		score += d
	}
	return Record{kind: Fuzzy, entries: entries, score: score}, nil
}

// Kind returns the record kind.
func (r *Record) Kind() Kind { return r.kind }

// Score returns the sum of all entries.
func (r *Record) Score() int { return r.score }

// Len returns the number of keywords in the record.
func (r *Record) Len() int { return len(r.entries) }

// Get returns the count or distance recorded for keyword.
func (r *Record) Get(keyword string) (int, bool) {
	v, ok := r.entries[keyword]
	return v, ok
}

// Entries returns a copy of the keyword map.
func (r *Record) Entries() map[string]int {
	out := make(map[string]int, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Result is a single ranked candidate.
type Result struct {
	documentID int64
	record     Record
}

// New creates a ranked result.
func New(documentID int64, record Record) Result {
	return Result{documentID: documentID, record: record}
}

// DocumentID returns the candidate document identifier.
func (r *Result) DocumentID() int64 { return r.documentID }

// Score returns the record score.
func (r *Result) Score() int { return r.record.score }

// Kind returns the record kind.
func (r *Result) Kind() Kind { return r.record.kind }

// Record returns the match record.
func (r *Result) Record() Record { return r.record }

// Stats describes one search run. Display only; never used for ranking.
type Stats struct {
	Elapsed   time.Duration
	Documents int
	Failed    int
}

// Outcome is the ranked, capped result list plus run statistics.
type Outcome struct {
	Results []Result
	Stats   Stats
}
