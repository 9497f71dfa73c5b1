package reviews

import (
	"context"
	"errors"
	"log/slog"

	"cinelog/proj/internal/domain/filters"
	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/storage"
)

type ReviewStorage interface {
	Insert(ctx context.Context, userID int64, movieID string, rating int, content string) (*models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	ListForMovie(ctx context.Context, movieID string) ([]models.Review, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Review, error)
	List(ctx context.Context, f *filters.Filters) ([]models.Review, error)
	ToggleHelpful(ctx context.Context, reviewID, userID int64) (*models.Review, error)
	Delete(ctx context.Context, reviewID, userID int64) error
}

type ReviewService struct {
	log     *slog.Logger
	storage ReviewStorage
}

func New(log *slog.Logger, storage ReviewStorage) *ReviewService {
	return &ReviewService{
		log:     log,
		storage: storage,
	}
}

func (s *ReviewService) Create(ctx context.Context, userID int64, movieID string, rating int, content string) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID)
	review, err := s.storage.Insert(ctx, userID, movieID, rating, content)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	const op = "reviews.ReviewService.ListByMovie"
	reviews, err := s.storage.ListForMovie(ctx, movieID)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	const op = "reviews.ReviewService.ListByUser"
	reviews, err := s.storage.ListForUser(ctx, userID)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) ListAll(ctx context.Context, f *filters.Filters) ([]models.Review, error) {
	const op = "reviews.ReviewService.ListAll"
	reviews, err := s.storage.List(ctx, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return reviews, nil
}

// ToggleHelpful flips the caller's membership in the review's helpful-voter
// set. Two identical calls in a row restore the original set.
func (s *ReviewService) ToggleHelpful(ctx context.Context, reviewID, userID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.ToggleHelpful"
	log := s.log.With("op", op, "review_id", reviewID, "user_id", userID)
	review, err := s.storage.ToggleHelpful(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// Delete removes the caller's own review. Unlike collection removal it is
// not idempotent: an absent or non-owned review is reported as not found.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "review_id", reviewID, "user_id", userID)
	if err := s.storage.Delete(ctx, reviewID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found or not owned")
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
