package candidate

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db/sqlite"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// mockStore implements the consumer interface for tests with an in-memory hash map.
type mockStore struct {
	hashes map[string]map[string]string
	seq    int64

	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	incrByFn       func(ctx context.Context, key string, val int64) (int64, error)
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	for _, it := range items {
		if err := m.HSet(ctx, it.Key, it.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return h, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	delete(m.hashes, key)
	return ok, nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	// SCAN order is arbitrary; reverse sort to catch order assumptions.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) (int64, error) {
	if m.incrByFn != nil {
		return m.incrByFn(ctx, key, val)
	}
	m.seq += val
	return m.seq, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, "screener:"), ms
}

func newTestSQLRepo(t *testing.T) *SQLRepo {
	t.Helper()
	d, err := sqlite.Open(context.Background(), sqlite.Config{Path: sqlite.MemoryPath})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(d.Close)
	return NewSQL(d.SQL())
}

func testCandidate(t *testing.T, id int64, text string) domcand.Candidate {
	t.Helper()
	c, err := domcand.New(id, 0, domcand.Profile{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "1815-12-10",
		Address:     "London",
		PhoneNumber: "+44 20 0000",
	}, "Software Engineer", "data/cv/ada.pdf", text)
	if err != nil {
		t.Fatalf("candidate.New: %v", err)
	}
	return c
}

// backend is the shared surface of both repositories exercised by contract tests.
type backend interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, c *domcand.Candidate) error
	Upsert(ctx context.Context, c *domcand.Candidate) (bool, error)
	BatchUpsert(ctx context.Context, cands []domcand.Candidate) error
	Get(ctx context.Context, id int64) (domcand.Candidate, error)
	List(ctx context.Context, offset, limit int) ([]domcand.Candidate, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
	Documents(ctx context.Context) ([]domcand.Document, error)
}

func backends(t *testing.T) map[string]backend {
	t.Helper()
	hash, _ := newTestRepo(t)
	return map[string]backend{
		"hash":   hash,
		"sqlite": newTestSQLRepo(t),
	}
}
