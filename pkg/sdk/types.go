package screener

import "time"

// Algorithm selects the exact matching algorithm.
type Algorithm string

// Exact matching algorithms.
const (
	KMP         Algorithm = "kmp" // overlapping occurrence counts
	BoyerMoore  Algorithm = "bm"  // non-overlapping occurrence counts
	AhoCorasick Algorithm = "ac"  // all keywords in one pass, overlapping
)

// MatchKind tells how a candidate matched.
type MatchKind string

// Match kinds.
const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// Candidate is one application: applicant profile, applied role and CV text.
// ID 0 on Create means "allocate"; ApplicantID 0 defaults to ID.
type Candidate struct {
	ID          int64
	ApplicantID int64
	FirstName   string
	LastName    string
	DateOfBirth string // YYYY-MM-DD, optional
	Address     string
	PhoneNumber string
	Role        string
	CVPath      string
	CVText      string
}

// CandidatePage is a window of candidates ordered by id.
type CandidatePage struct {
	Candidates []Candidate
	Total      int
	Offset     int
	Limit      int
}

// SearchOptions describes one keyword search.
// Limit <= 0 or no keywords yields an empty result.
type SearchOptions struct {
	Keywords  []string
	Algorithm Algorithm // default KMP
	Fuzzy     bool
	Limit     int
}

// Hit is one ranked candidate.
// Exact hits score the total occurrence count (higher is better);
// fuzzy hits score the summed edit distance (lower is better).
type Hit struct {
	CandidateID int64
	Kind        MatchKind
	Score       int
	Matches     map[string]int // keyword → occurrences (exact) or distance (fuzzy)
}

// SearchStats reports the scan that produced a result.
type SearchStats struct {
	Elapsed   time.Duration
	Documents int
	Failed    int
}

// SearchResult holds ranked hits, exact before fuzzy.
type SearchResult struct {
	Hits  []Hit
	Stats SearchStats
}

// BatchResult is the outcome of one item in a batch operation.
type BatchResult struct {
	ID  int64
	OK  bool
	Err error
}
