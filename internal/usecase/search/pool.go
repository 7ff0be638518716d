package search

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

// MaxWorkers caps the default worker pool size.
const MaxWorkers = 32

// DefaultWorkers returns min(MaxWorkers, GOMAXPROCS*5).
func DefaultWorkers() int {
	return min(MaxWorkers, runtime.GOMAXPROCS(0)*5)
}

// scoreFunc evaluates one document. ok=false means the document contributes nothing.
type scoreFunc func(doc candidate.Document) (rec result.Record, ok bool, err error)

// scored is a matched document tagged with its corpus position for tie-breaking.
type scored struct {
	index  int
	id     int64
	record result.Record
}

type taskResult struct {
	scored
	ok  bool
	err error
}

// fanOut runs fn once per document on a bounded pool and collects results in
// completion order. Tasks share only read-only inputs, so no locking is needed;
// the channel close after wg.Wait is the join barrier.
func fanOut(docs []candidate.Document, workers int, fn scoreFunc) ([]scored, []error) {
	if len(docs) == 0 {
		return nil, nil
	}
	workers = max(1, min(workers, len(docs)))

	jobs := make(chan int)
	results := make(chan taskResult, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- runTask(i, docs[i], fn)
			}
		}()
	}

	go func() {
		for i := range docs {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		matched []scored
		errs    []error
	)
	for r := range results {
		switch {
		case r.err != nil:
			errs = append(errs, r.err)
		case r.ok:
			matched = append(matched, r.scored)
		}
	}
	return matched, errs
}

// runTask isolates a single document: errors and panics become a DocumentError.
func runTask(index int, doc candidate.Document, fn scoreFunc) (tr taskResult) {
	tr.index = index
	tr.id = doc.ID

	defer func() {
		if rvr := recover(); rvr != nil {
			tr.ok = false
			tr.err = domain.NewDocumentError(doc.ID, fmt.Errorf("panic: %v", rvr))
		}
	}()

	rec, ok, err := fn(doc)
	if err != nil {
		tr.err = domain.NewDocumentError(doc.ID, err)
		return tr
	}
	tr.record = rec
	tr.ok = ok
	return tr
}
