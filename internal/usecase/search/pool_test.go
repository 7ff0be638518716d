package search

import (
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

func docsN(n int) []candidate.Document {
	docs := make([]candidate.Document, n)
	for i := range docs {
		docs[i] = candidate.Document{ID: int64(i + 1), Text: "x"}
	}
	return docs
}

func TestFanOut_VisitsEveryDocumentOnce(t *testing.T) {
	docs := docsN(500)
	var calls atomic.Int64
	fn := func(doc candidate.Document) (result.Record, bool, error) {
		calls.Add(1)
		rec, _ := result.NewExact(map[string]int{"x": int(doc.ID)})
		return rec, true, nil
	}

	matched, errs := fanOut(docs, 8, fn)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if calls.Load() != 500 || len(matched) != 500 {
		t.Fatalf("calls=%d matched=%d, want 500", calls.Load(), len(matched))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].index < matched[j].index })
	for i, m := range matched {
		if m.index != i || m.id != int64(i+1) {
			t.Fatalf("slot %d holds index=%d id=%d", i, m.index, m.id)
		}
	}
}

func TestFanOut_Empty(t *testing.T) {
	matched, errs := fanOut(nil, 4, func(candidate.Document) (result.Record, bool, error) {
		t.Fatal("fn must not be called")
		return result.Record{}, false, nil
	})
	if matched != nil || errs != nil {
		t.Errorf("expected nil slices, got %v / %v", matched, errs)
	}
}

func TestFanOut_MoreWorkersThanDocuments(t *testing.T) {
	matched, errs := fanOut(docsN(3), 100, func(candidate.Document) (result.Record, bool, error) {
		rec, _ := result.NewExact(map[string]int{"x": 1})
		return rec, true, nil
	})
	if len(matched) != 3 || len(errs) != 0 {
		t.Errorf("matched=%d errs=%d", len(matched), len(errs))
	}
}

func TestFanOut_NoMatchIsSkipped(t *testing.T) {
	matched, errs := fanOut(docsN(10), 2, func(doc candidate.Document) (result.Record, bool, error) {
		if doc.ID%2 == 0 {
			return result.Record{}, false, nil
		}
		rec, _ := result.NewExact(map[string]int{"x": 1})
		return rec, true, nil
	})
	if len(matched) != 5 || len(errs) != 0 {
		t.Errorf("matched=%d errs=%d, want 5/0", len(matched), len(errs))
	}
}

func TestFanOut_ErrorIsolated(t *testing.T) {
	boom := errors.New("boom")
	matched, errs := fanOut(docsN(6), 3, func(doc candidate.Document) (result.Record, bool, error) {
		if doc.ID == 4 {
			return result.Record{}, false, boom
		}
		rec, _ := result.NewExact(map[string]int{"x": 1})
		return rec, true, nil
	})
	if len(matched) != 5 {
		t.Errorf("matched = %d, want 5", len(matched))
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %d, want 1", len(errs))
	}
	var de *domain.DocumentError
	if !errors.As(errs[0], &de) || de.DocumentID != 4 {
		t.Errorf("expected DocumentError for doc 4, got %v", errs[0])
	}
	if !errors.Is(errs[0], boom) {
		t.Errorf("cause lost: %v", errs[0])
	}
}

func TestFanOut_PanicRecovered(t *testing.T) {
	matched, errs := fanOut(docsN(4), 2, func(doc candidate.Document) (result.Record, bool, error) {
		if doc.ID == 2 {
			panic("corrupt document")
		}
		rec, _ := result.NewExact(map[string]int{"x": 1})
		return rec, true, nil
	})
	if len(matched) != 3 {
		t.Errorf("matched = %d, want 3", len(matched))
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %d, want 1", len(errs))
	}
	var de *domain.DocumentError
	if !errors.As(errs[0], &de) || de.DocumentID != 2 {
		t.Fatalf("expected DocumentError for doc 2, got %v", errs[0])
	}
	if !strings.Contains(errs[0].Error(), "corrupt document") {
		t.Errorf("panic value missing from error: %v", errs[0])
	}
}
