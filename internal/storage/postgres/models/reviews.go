package models

import (
	"context"
	"errors"
	"fmt"

	"cinelog/proj/internal/domain/filters"
	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewModel struct {
	DB *pgxpool.Pool
}

// reviewSelect denormalizes the author email and aggregates helpful voters
// in one pass. The email falls back to 'Anonymous' when the author row is
// missing.
const reviewSelect = `
	SELECT r.id, r.user_id, r.movie_id, r.rating, r.content, r.created_at,
		COALESCE(u.email, 'Anonymous') AS user_email,
		COALESCE(array_agg(v.user_id ORDER BY v.user_id) FILTER (WHERE v.user_id IS NOT NULL), '{}') AS helpful
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id
	LEFT JOIN review_helpful_votes v ON v.review_id = r.id`

const reviewGroupBy = " GROUP BY r.id, u.email"

func (m *ReviewModel) Insert(ctx context.Context, userID int64, movieID string, rating int, content string) (*models.Review, error) {
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO reviews (user_id, movie_id, rating, content) VALUES ($1, $2, $3, $4) RETURNING id",
		userID,
		movieID,
		rating,
		content,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *ReviewModel) Get(ctx context.Context, id int64) (*models.Review, error) {
	rows, _ := m.DB.Query(ctx, reviewSelect+" WHERE r.id = $1"+reviewGroupBy, id)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) ListForMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		reviewSelect+" WHERE r.movie_id = $1"+reviewGroupBy+" ORDER BY r.created_at DESC, r.id DESC",
		movieID,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Review])
}

func (m *ReviewModel) ListForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		reviewSelect+" WHERE r.user_id = $1"+reviewGroupBy+" ORDER BY r.created_at DESC, r.id DESC",
		userID,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Review])
}

func (m *ReviewModel) List(ctx context.Context, f *filters.Filters) ([]models.Review, error) {
	// SortColumn and SortDirection are safelist-checked, safe to interpolate.
	query := reviewSelect + reviewGroupBy + fmt.Sprintf(
		" ORDER BY r.%s %s, r.id DESC LIMIT $1 OFFSET $2",
		f.SortColumn(),
		f.SortDirection(),
	)
	rows, _ := m.DB.Query(ctx, query, f.Limit(), f.Offset())
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Review])
}

// ToggleHelpful flips userID's membership in the review's helpful-voter set
// and returns the updated review. The vote insert relies on the primary key,
// so two racing identical toggles settle as one insert and one delete.
func (m *ReviewModel) ToggleHelpful(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	if _, err := m.Get(ctx, reviewID); err != nil {
		return nil, err
	}
	status, err := m.DB.Exec(
		ctx,
		"INSERT INTO review_helpful_votes (review_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		reviewID,
		userID,
	)
	if err != nil {
		return nil, err
	}
	if status.RowsAffected() == 0 {
		_, err = m.DB.Exec(
			ctx,
			"DELETE FROM review_helpful_votes WHERE review_id = $1 AND user_id = $2",
			reviewID,
			userID,
		)
		if err != nil {
			return nil, err
		}
	}
	return m.Get(ctx, reviewID)
}

// Delete removes the review only when userID is its author. Absent and
// non-owned both report not found, existence of other users' reviews is not
// leaked.
func (m *ReviewModel) Delete(ctx context.Context, reviewID, userID int64) error {
	status, err := m.DB.Exec(
		ctx,
		"DELETE FROM reviews WHERE id = $1 AND user_id = $2",
		reviewID,
		userID,
	)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
