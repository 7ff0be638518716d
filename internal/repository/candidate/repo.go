package candidate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// fetchBatch bounds the number of HGETALLs per pipelined round-trip.
const fetchBatch = 500

// store is the consumer interface for candidate hashes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo stores candidates as Valkey/Redis hashes under <prefix>candidate:<id>.
// It implements usecase/candidate.Repository and usecase/search.CorpusReader.
type Repo struct {
	store  store
	prefix string
}

// New creates a hash-backed candidate repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// NextID allocates a candidate id from the <prefix>seq:candidate counter.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.IncrBy(ctx, r.seqKey(), 1)
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	return id, nil
}

// Create stores a new candidate. Returns domain.ErrAlreadyExists if the id is taken.
func (r *Repo) Create(ctx context.Context, c *domcand.Candidate) error {
	key := r.key(c.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		return fmt.Errorf("candidate %d: %w", c.ID(), domain.ErrAlreadyExists)
	}
	if err := r.store.HSet(ctx, key, buildHashFields(c)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Upsert creates or replaces a candidate. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, c *domcand.Candidate) (bool, error) {
	key := r.key(c.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if err := r.store.HSet(ctx, key, buildHashFields(c)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	if !exists {
		if err := r.raiseSequence(ctx, c.ID()); err != nil {
			return false, err
		}
	}
	return !exists, nil
}

// BatchUpsert creates or replaces candidates in one pipelined round-trip.
func (r *Repo) BatchUpsert(ctx context.Context, cands []domcand.Candidate) error {
	if len(cands) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(cands))
	var maxID int64
	for i := range cands {
		items[i] = db.HashSetItem{Key: r.key(cands[i].ID()), Fields: buildHashFields(&cands[i])}
		maxID = max(maxID, cands[i].ID())
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("batch hset: %w", err)
	}
	return r.raiseSequence(ctx, maxID)
}

// Get returns a candidate by id.
func (r *Repo) Get(ctx context.Context, id int64) (domcand.Candidate, error) {
	key := r.key(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcand.Candidate{}, domain.ErrCandidateNotFound
		}
		return domcand.Candidate{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return parseHashFields(id, m), nil
}

// List returns up to limit candidates ordered by id, skipping offset.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domcand.Candidate, error) {
	ids, err := r.ids(ctx)
	if err != nil {
		return nil, err
	}
	if offset >= len(ids) || limit <= 0 {
		return []domcand.Candidate{}, nil
	}
	ids = ids[max(offset, 0):min(max(offset, 0)+limit, len(ids))]
	return r.fetch(ctx, ids)
}

// Count returns the number of stored candidates.
func (r *Repo) Count(ctx context.Context) (int, error) {
	ids, err := r.ids(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Delete removes a candidate.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := r.key(id)
	existed, err := r.store.Del(ctx, key)
	if err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if !existed {
		return domain.ErrCandidateNotFound
	}
	return nil
}

// Documents returns a snapshot of every candidate's text ordered by id.
func (r *Repo) Documents(ctx context.Context) ([]domcand.Document, error) {
	ids, err := r.ids(ctx)
	if err != nil {
		return nil, err
	}
	cands, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	docs := make([]domcand.Document, len(cands))
	for i := range cands {
		docs[i] = cands[i].Document()
	}
	return docs, nil
}

// ids scans candidate keys and returns their ids in ascending order.
func (r *Repo) ids(ctx context.Context) ([]int64, error) {
	pattern := r.prefix + "candidate:*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	ids := make([]int64, 0, len(keys))
	for _, k := range keys {
		if id, ok := r.parseKey(k); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// fetch loads candidates in pipelined batches, preserving id order.
// Keys deleted since the scan are skipped.
func (r *Repo) fetch(ctx context.Context, ids []int64) ([]domcand.Candidate, error) {
	out := make([]domcand.Candidate, 0, len(ids))
	for start := 0; start < len(ids); start += fetchBatch {
		batch := ids[start:min(start+fetchBatch, len(ids))]
		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = r.key(id)
		}
		maps, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("fetch candidates: %w", err)
		}
		for i, m := range maps {
			if m == nil {
				continue
			}
			out = append(out, parseHashFields(batch[i], m))
		}
	}
	return out, nil
}

// raiseSequence moves the id counter to at least id so NextID never
// returns an id taken by an explicit upsert. A concurrent NextID can still
// race past the check; Create reports that as domain.ErrAlreadyExists.
func (r *Repo) raiseSequence(ctx context.Context, id int64) error {
	cur, err := r.store.IncrBy(ctx, r.seqKey(), 0)
	if err != nil {
		return fmt.Errorf("read sequence: %w", err)
	}
	if id <= cur {
		return nil
	}
	if _, err := r.store.IncrBy(ctx, r.seqKey(), id-cur); err != nil {
		return fmt.Errorf("raise sequence: %w", err)
	}
	return nil
}

func (r *Repo) key(id int64) string {
	return r.prefix + "candidate:" + strconv.FormatInt(id, 10)
}

func (r *Repo) seqKey() string {
	return r.prefix + "seq:candidate"
}

func (r *Repo) parseKey(key string) (int64, bool) {
	raw, ok := strings.CutPrefix(key, r.prefix+"candidate:")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
