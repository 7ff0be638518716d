package search

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/keyword"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

func sampleCorpus() []candidate.Document {
	return []candidate.Document{
		{ID: 1, Text: "engineer python react"},
		{ID: 2, Text: "manager sales"},
		{ID: 3, Text: "pythonista developer"},
	}
}

func makeRequest(t *testing.T, kws string, algo algorithm.Algorithm, fuzzy bool, limit int) *request.Request {
	t.Helper()
	r, err := request.New(keyword.Parse(kws), algo, fuzzy, limit)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func ids(results []result.Result) []int64 {
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = r.DocumentID()
	}
	return out
}

func TestEngine_ExactScenario(t *testing.T) {
	for _, algo := range []algorithm.Algorithm{algorithm.KMP, algorithm.BoyerMoore, algorithm.AhoCorasick} {
		t.Run(string(algo), func(t *testing.T) {
			e := NewEngine(EngineConfig{Workers: 4, FuzzyMaxDistance: 1}, zap.NewNop())
			out, err := e.Search(sampleCorpus(), makeRequest(t, "python", algo, false, 10))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(out.Results); !reflect.DeepEqual(got, []int64{1, 3}) {
				t.Fatalf("ids = %v, want [1 3]", got)
			}
			for _, r := range out.Results {
				if r.Kind() != result.Exact || r.Score() != 1 {
					t.Errorf("doc %d: kind=%s score=%d, want exact/1", r.DocumentID(), r.Kind(), r.Score())
				}
			}
			if out.Stats.Documents != 3 || out.Stats.Failed != 0 {
				t.Errorf("stats = %+v", out.Stats)
			}
		})
	}
}

func TestEngine_FuzzyScenario(t *testing.T) {
	e := NewEngine(EngineConfig{Workers: 2, FuzzyMaxDistance: 1}, zap.NewNop())
	out, err := e.Search(sampleCorpus(), makeRequest(t, "pythn", algorithm.KMP, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "pythonista" is 5 edits from "pythn", so only document 1 resolves within 1.
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("ids = %v, want [1]", got)
	}
	r := out.Results[0]
	if r.Kind() != result.Fuzzy || r.Score() != 1 {
		t.Errorf("kind=%s score=%d, want fuzzy/1", r.Kind(), r.Score())
	}
	rec := r.Record()
	if d, ok := rec.Get("pythn"); !ok || d != 1 {
		t.Errorf("record entry = %d/%v, want 1", d, ok)
	}
}

func TestEngine_FuzzyRanksCloserFirst(t *testing.T) {
	e := NewEngine(EngineConfig{Workers: 2, FuzzyMaxDistance: 5}, zap.NewNop())
	out, err := e.Search(sampleCorpus(), makeRequest(t, "pythn", algorithm.KMP, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "sales" and "pythonista" both sit 5 edits away; equal scores keep corpus order.
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("ids = %v, want [1 2 3]", got)
	}
	want := []int{1, 5, 5}
	for i, r := range out.Results {
		if r.Score() != want[i] {
			t.Errorf("result %d score = %d, want %d", r.DocumentID(), r.Score(), want[i])
		}
	}
}

func TestEngine_FuzzyDisabled(t *testing.T) {
	e := NewEngine(EngineConfig{FuzzyMaxDistance: 3}, nil)
	out, err := e.Search(sampleCorpus(), makeRequest(t, "pythn", algorithm.KMP, false, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 0 {
		t.Errorf("expected no results with fuzzy disabled, got %v", ids(out.Results))
	}
}

func TestEngine_FuzzyRequiresEveryKeyword(t *testing.T) {
	docs := []candidate.Document{
		{ID: 1, Text: "pythn reakt"},
		{ID: 2, Text: "pythn only"},
	}
	e := NewEngine(EngineConfig{FuzzyMaxDistance: 1}, nil)
	out, err := e.Search(docs, makeRequest(t, "python, react", algorithm.AhoCorasick, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("ids = %v, want [1]", got)
	}
	if out.Results[0].Score() != 2 {
		t.Errorf("score = %d, want 2", out.Results[0].Score())
	}
}

func TestEngine_ExactRecordOmitsUnmatchedKeywords(t *testing.T) {
	docs := []candidate.Document{{ID: 9, Text: "Go go GO rust"}}
	e := NewEngine(EngineConfig{}, nil)
	out, err := e.Search(docs, makeRequest(t, "go, java", algorithm.KMP, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out.Results))
	}
	rec := out.Results[0].Record()
	if rec.Kind() != result.Exact {
		t.Fatalf("kind = %s, want exact", rec.Kind())
	}
	if n, _ := rec.Get("go"); n != 3 {
		t.Errorf("go count = %d, want 3 (case-insensitive)", n)
	}
	if _, ok := rec.Get("java"); ok {
		t.Error("unmatched keyword must be absent, not zero-filled")
	}
	if rec.Score() != 3 {
		t.Errorf("score = %d, want 3", rec.Score())
	}
}

func TestEngine_ExactRanking(t *testing.T) {
	docs := []candidate.Document{
		{ID: 10, Text: "sql"},
		{ID: 11, Text: "sql sql sql"},
		{ID: 12, Text: "sql sql"},
		{ID: 13, Text: "sql"},
	}
	e := NewEngine(EngineConfig{Workers: 3}, nil)
	out, err := e.Search(docs, makeRequest(t, "sql", algorithm.BoyerMoore, false, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{11, 12, 10, 13}) {
		t.Errorf("ids = %v, want [11 12 10 13]", got)
	}
}

func TestEngine_ExactOutranksFuzzy(t *testing.T) {
	docs := []candidate.Document{
		{ID: 1, Text: "golang"},
		{ID: 2, Text: "rust"},
		{ID: 3, Text: "gopher"},
		{ID: 4, Text: "g"},
	}
	e := NewEngine(EngineConfig{FuzzyMaxDistance: 4}, nil)
	out, err := e.Search(docs, makeRequest(t, "go", algorithm.KMP, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// exact: 1, 3 (one occurrence each); fuzzy: 4 (d=1), 2 (d=4).
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{1, 3, 4, 2}) {
		t.Fatalf("ids = %v, want [1 3 4 2]", got)
	}
	kinds := []result.Kind{result.Exact, result.Exact, result.Fuzzy, result.Fuzzy}
	for i, r := range out.Results {
		if r.Kind() != kinds[i] {
			t.Errorf("result %d kind = %s, want %s", i, r.Kind(), kinds[i])
		}
	}
}

func TestEngine_LimitTruncatesExactIgnoresFuzzy(t *testing.T) {
	docs := []candidate.Document{
		{ID: 1, Text: "java"},
		{ID: 2, Text: "java java"},
		{ID: 3, Text: "jav"},
		{ID: 4, Text: "java java java"},
	}
	e := NewEngine(EngineConfig{FuzzyMaxDistance: 2}, nil)
	out, err := e.Search(docs, makeRequest(t, "java", algorithm.AhoCorasick, true, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{4, 2}) {
		t.Fatalf("ids = %v, want [4 2]", got)
	}
	for _, r := range out.Results {
		if r.Kind() != result.Exact {
			t.Errorf("doc %d is %s, fuzzy candidates must be ignored", r.DocumentID(), r.Kind())
		}
	}
}

func TestEngine_FuzzyFillsRemainder(t *testing.T) {
	docs := []candidate.Document{
		{ID: 1, Text: "jva"},
		{ID: 2, Text: "java"},
		{ID: 3, Text: "jxvx"},
		{ID: 4, Text: "jav"},
	}
	e := NewEngine(EngineConfig{FuzzyMaxDistance: 2}, nil)
	out, err := e.Search(docs, makeRequest(t, "java", algorithm.KMP, true, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// exact: 2; fuzzy: 1 (d=1), 4 (d=1), 3 (d=2) -> take first two.
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{2, 1, 4}) {
		t.Fatalf("ids = %v, want [2 1 4]", got)
	}
}

func TestEngine_OverlapPolicyAffectsScore(t *testing.T) {
	docs := []candidate.Document{{ID: 1, Text: "aaaaaa"}}
	e := NewEngine(EngineConfig{}, nil)

	tests := []struct {
		algo algorithm.Algorithm
		want int
	}{
		{algorithm.KMP, 4},
		{algorithm.BoyerMoore, 2},
		{algorithm.AhoCorasick, 4},
	}
	for _, tc := range tests {
		out, err := e.Search(docs, makeRequest(t, "aaa", tc.algo, false, 10))
		if err != nil {
			t.Fatalf("%s: %v", tc.algo, err)
		}
		if len(out.Results) != 1 || out.Results[0].Score() != tc.want {
			t.Errorf("%s: results = %v, want score %d", tc.algo, out.Results, tc.want)
		}
	}
}

func TestEngine_EmptyKeywords(t *testing.T) {
	e := NewEngine(EngineConfig{}, nil)
	out, err := e.Search(sampleCorpus(), makeRequest(t, " , ", algorithm.KMP, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Results == nil || len(out.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", out.Results)
	}
	if out.Stats.Documents != 0 {
		t.Errorf("no task should be dispatched, stats = %+v", out.Stats)
	}
}

func TestEngine_NonPositiveLimit(t *testing.T) {
	e := NewEngine(EngineConfig{}, nil)
	for _, limit := range []int{0, -1} {
		out, err := e.Search(sampleCorpus(), makeRequest(t, "python", algorithm.KMP, false, limit))
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if len(out.Results) != 0 || out.Stats.Documents != 0 {
			t.Errorf("limit %d: results=%v stats=%+v", limit, ids(out.Results), out.Stats)
		}
	}
}

func TestEngine_InvalidAlgorithmFailsFast(t *testing.T) {
	e := NewEngine(EngineConfig{}, nil)
	var req request.Request // zero value carries no valid algorithm
	_, err := e.Search(sampleCorpus(), &req)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestEngine_EmptyAndMissingText(t *testing.T) {
	docs := []candidate.Document{{ID: 1, Text: ""}, {ID: 2, Text: "python"}}
	e := NewEngine(EngineConfig{FuzzyMaxDistance: 10}, nil)
	out, err := e.Search(docs, makeRequest(t, "python", algorithm.KMP, true, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("ids = %v, want [2]", got)
	}
	if out.Stats.Failed != 0 {
		t.Errorf("empty text is not an error, failed = %d", out.Stats.Failed)
	}
}

func TestEngine_MalformedDocumentDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	docs := []candidate.Document{
		{ID: 1, Text: "python"},
		{ID: 2, Text: "python \xff\xfe"},
		{ID: 3, Text: "python python"},
	}
	e := NewEngine(EngineConfig{Workers: 2}, zap.New(core))
	out, err := e.Search(docs, makeRequest(t, "python", algorithm.KMP, false, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{3, 1}) {
		t.Errorf("ids = %v, want [3 1]", got)
	}
	if out.Stats.Failed != 1 || out.Stats.Documents != 3 {
		t.Errorf("stats = %+v, want 3 documents / 1 failed", out.Stats)
	}

	entries := logs.FilterMessage("document dropped from search").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if id := entries[0].ContextMap()["candidate_id"]; id != int64(2) {
		t.Errorf("candidate_id = %v, want 2", id)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	var docs []candidate.Document
	for i := 0; i < 200; i++ {
		docs = append(docs, candidate.Document{
			ID:   int64(i + 1),
			Text: strings.Repeat("go ", i%7) + fmt.Sprintf("rust%d", i%3),
		})
	}
	e := NewEngine(EngineConfig{Workers: 16, FuzzyMaxDistance: 1}, nil)
	req := makeRequest(t, "go, rust0", algorithm.AhoCorasick, true, 50)

	first, err := e.Search(docs, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := e.Search(docs, req)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if !reflect.DeepEqual(first.Results, again.Results) {
			t.Fatalf("run %d: ranking changed", run)
		}
	}
}

func TestEngine_WorkerCountDoesNotChangeRanking(t *testing.T) {
	var docs []candidate.Document
	for i := 0; i < 120; i++ {
		docs = append(docs, candidate.Document{
			ID:   int64(i + 1),
			Text: strings.Repeat("java ", i%5) + "jav",
		})
	}
	req := makeRequest(t, "java", algorithm.BoyerMoore, true, 100)

	serial, err := NewEngine(EngineConfig{Workers: 1, FuzzyMaxDistance: 1}, nil).Search(docs, req)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := NewEngine(EngineConfig{Workers: 32, FuzzyMaxDistance: 1}, nil).Search(docs, req)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(ids(serial.Results), ids(parallel.Results)) {
		t.Error("ranking depends on worker count")
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(EngineConfig{Workers: 0, FuzzyMaxDistance: -3}, nil)
	if e.Workers() != DefaultWorkers() {
		t.Errorf("Workers() = %d, want %d", e.Workers(), DefaultWorkers())
	}
	if e.FuzzyMaxDistance() != 0 {
		t.Errorf("FuzzyMaxDistance() = %d, want 0", e.FuzzyMaxDistance())
	}
	if w := DefaultWorkers(); w < 1 || w > MaxWorkers {
		t.Errorf("DefaultWorkers() = %d, want within [1, %d]", w, MaxWorkers)
	}
}
