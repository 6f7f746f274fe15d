package guard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGDedupStore struct {
	pool *pgxpool.Pool
}

func NewPGDedupStore(pool *pgxpool.Pool) *PGDedupStore {
	return &PGDedupStore{pool: pool}
}

var _ DedupStore = (*PGDedupStore)(nil)

func (s *PGDedupStore) InsertOnce(ctx context.Context, eventID, actor, kind string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO event_dedup (event_id, actor, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
	`, eventID, actor, kind)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
