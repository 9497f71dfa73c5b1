package models

import (
	"context"
	"errors"

	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/storage"
	"cinelog/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionModel persists favorites and watchlist entries in one table,
// discriminated by kind. The (user_id, movie_id, kind) unique index is the
// source of truth for the no-duplicates invariant.
type CollectionModel struct {
	DB *pgxpool.Pool
}

func (m *CollectionModel) Insert(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) (*models.CollectionEntry, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO collection_entries (user_id, movie_id, kind) VALUES ($1, $2, $3) RETURNING *",
		userID,
		movieID,
		kind,
	)
	entry, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.CollectionEntry])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &entry, nil
}

// Delete is delete-if-exists: removing an absent entry is not an error.
func (m *CollectionModel) Delete(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) error {
	_, err := m.DB.Exec(
		ctx,
		"DELETE FROM collection_entries WHERE user_id = $1 AND movie_id = $2 AND kind = $3",
		userID,
		movieID,
		kind,
	)
	return err
}

func (m *CollectionModel) List(ctx context.Context, userID int64, kind models.CollectionKind) ([]models.CollectionEntry, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT * FROM collection_entries WHERE user_id = $1 AND kind = $2 ORDER BY added_at DESC, id DESC",
		userID,
		kind,
	)
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CollectionEntry])
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *CollectionModel) Exists(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM collection_entries WHERE user_id = $1 AND movie_id = $2 AND kind = $3)",
		userID,
		movieID,
		kind,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
