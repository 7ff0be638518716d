package candidate

import (
	"context"

	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// Repository defines the storage contract for candidates.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, c *domcand.Candidate) error
	Upsert(ctx context.Context, c *domcand.Candidate) (bool, error)
	Get(ctx context.Context, id int64) (domcand.Candidate, error)
	List(ctx context.Context, offset, limit int) ([]domcand.Candidate, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
}
