package collections

import (
	"context"
	"errors"
	"log/slog"

	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/storage"
)

type CollectionStorage interface {
	Insert(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) (*models.CollectionEntry, error)
	Delete(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) error
	List(ctx context.Context, userID int64, kind models.CollectionKind) ([]models.CollectionEntry, error)
	Exists(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) (bool, error)
}

// CollectionService manages the per-user movie collections. Favorites and
// watchlist obey the same shape and invariants, so one service handles both,
// parameterized by kind.
type CollectionService struct {
	log     *slog.Logger
	storage CollectionStorage
}

func New(log *slog.Logger, storage CollectionStorage) *CollectionService {
	return &CollectionService{
		log:     log,
		storage: storage,
	}
}

func (s *CollectionService) Add(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) (*models.CollectionEntry, error) {
	const op = "collections.CollectionService.Add"
	log := s.log.With("op", op, "user_id", userID, "kind", kind, "movie_id", movieID)
	entry, err := s.storage.Insert(ctx, userID, kind, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already in collection")
			return nil, ErrAlreadyInCollection
		}
		log.Error(err.Error())
		return nil, err
	}
	return entry, nil
}

// Remove is idempotent: removing a movie that is not in the collection
// succeeds.
func (s *CollectionService) Remove(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) error {
	const op = "collections.CollectionService.Remove"
	if err := s.storage.Delete(ctx, userID, kind, movieID); err != nil {
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}

func (s *CollectionService) List(ctx context.Context, userID int64, kind models.CollectionKind) ([]models.CollectionEntry, error) {
	const op = "collections.CollectionService.List"
	entries, err := s.storage.List(ctx, userID, kind)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return entries, nil
}

func (s *CollectionService) Contains(ctx context.Context, userID int64, kind models.CollectionKind, movieID string) (bool, error) {
	const op = "collections.CollectionService.Contains"
	exists, err := s.storage.Exists(ctx, userID, kind, movieID)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return false, err
	}
	return exists, nil
}
