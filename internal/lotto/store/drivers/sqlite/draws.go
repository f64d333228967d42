package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/store/drivers/sqlite/gen"
)

type drawsRepo struct {
	q *gen.Queries
}

func (r *drawsRepo) CreateDraw(ctx context.Context, d domain.Draw) error {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.q.CreateDraw(ctx, gen.CreateDrawParams{
		ID:         d.ID,
		UserID:     d.UserID,
		Ciphertext: d.Ciphertext,
		Played:     d.Played,
		Win:        d.Win,
		Round:      int64(d.Round),
		CreatedAt:  createdAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *drawsRepo) GetDrawByID(ctx context.Context, id string) (domain.Draw, error) {
	row, err := r.q.GetDrawByID(ctx, id)
	if err != nil {
		return domain.Draw{}, mapNotFound(err)
	}
	return mapDraw(row), nil
}

func (r *drawsRepo) ListDrawsByUser(ctx context.Context, userID string, played bool) ([]domain.Draw, error) {
	rows, err := r.q.ListDrawsByUser(ctx, gen.ListDrawsByUserParams{
		UserID: userID,
		Played: played,
	})
	if err != nil {
		return nil, err
	}

	draws := make([]domain.Draw, len(rows))
	for i, row := range rows {
		draws[i] = mapDraw(row)
	}
	return draws, nil
}

func (r *drawsRepo) DeletePlayedDraws(ctx context.Context, userID string) (int64, error) {
	return r.q.DeletePlayedDraws(ctx, userID)
}

func (r *drawsRepo) MarkDrawPlayed(ctx context.Context, id string, round int, win bool) (int64, error) {
	return r.q.MarkDrawPlayed(ctx, gen.MarkDrawPlayedParams{
		Win:   win,
		Round: int64(round),
		ID:    id,
	})
}
