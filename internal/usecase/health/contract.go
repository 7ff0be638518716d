package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CorpusCounter reports the size of the searchable corpus.
type CorpusCounter interface {
	Count(ctx context.Context) (int, error)
}
