package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cinelog/proj/internal/config"
	"cinelog/proj/internal/domain/filters"
	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/metrics"
	"cinelog/proj/internal/services"
	"cinelog/proj/internal/services/auth"
	"cinelog/proj/internal/services/collections"
	"cinelog/proj/internal/services/reviews"
	"cinelog/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func NewTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		AppSecret: testSecret,
		TokenTTL:  time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: govalidator.New(govalidator.WithRequiredStructEnabled()),
		metrics:   metrics.NewCollector(registry),
		registry:  registry,
		services: &services.Services{
			Auth:        auth.New(log, newMemUserStorage(), nil, noopExecutor{}, cfg.AppSecret, cfg.TokenTTL),
			Collections: collections.New(log, newMemCollectionStorage()),
			Reviews:     reviews.New(log, newMemReviewStorage()),
		},
		Http: &Http{log: log, cfg: cfg},
	}
	return app
}

// registerTestUser creates an account straight through the service layer and
// returns the user with a valid bearer token.
func registerTestUser(t *testing.T, app *Application, email string) (*models.User, string) {
	t.Helper()
	user, token, err := app.services.Auth.Signup(context.Background(), email, "test", "password123")
	require.NoError(t, err)
	return user, token
}

func parseResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

type noopExecutor struct{}

func (noopExecutor) Add(task func()) {}

// ticker hands out strictly increasing timestamps so descending-order
// assertions are deterministic.
type ticker struct {
	base time.Time
	n    int
}

func (c *ticker) next() time.Time {
	c.n++
	return c.base.Add(time.Duration(c.n) * time.Millisecond)
}

type memUserStorage struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	clock  ticker
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{users: make(map[int64]models.User), clock: ticker{base: time.Now()}}
}

func (s *memUserStorage) Insert(_ context.Context, email, name string, passwordHash []byte) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, storage.ErrConflict
		}
	}
	s.nextID++
	user := models.User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock.next(),
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *memUserStorage) Get(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *memUserStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memUserStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	for id, u := range s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return nil, storage.ErrConflict
		}
	}
	updated := *user
	updated.UpdatedAt = s.clock.next()
	s.users[user.ID] = updated
	return &updated, nil
}

type collectionKey struct {
	userID  int64
	kind    models.CollectionKind
	movieID string
}

type memCollectionStorage struct {
	mu      sync.Mutex
	nextID  int64
	entries map[collectionKey]models.CollectionEntry
	clock   ticker
}

func newMemCollectionStorage() *memCollectionStorage {
	return &memCollectionStorage{
		entries: make(map[collectionKey]models.CollectionEntry),
		clock:   ticker{base: time.Now()},
	}
}

func (s *memCollectionStorage) Insert(_ context.Context, userID int64, kind models.CollectionKind, movieID string) (*models.CollectionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := collectionKey{userID, kind, movieID}
	if _, ok := s.entries[key]; ok {
		return nil, storage.ErrConflict
	}
	s.nextID++
	entry := models.CollectionEntry{
		ID:      s.nextID,
		UserID:  userID,
		MovieID: movieID,
		Kind:    kind,
		AddedAt: s.clock.next(),
	}
	s.entries[key] = entry
	return &entry, nil
}

func (s *memCollectionStorage) Delete(_ context.Context, userID int64, kind models.CollectionKind, movieID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, collectionKey{userID, kind, movieID})
	return nil
}

func (s *memCollectionStorage) List(_ context.Context, userID int64, kind models.CollectionKind) ([]models.CollectionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []models.CollectionEntry
	for key, entry := range s.entries {
		if key.userID == userID && key.kind == kind {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

func (s *memCollectionStorage) Exists(_ context.Context, userID int64, kind models.CollectionKind, movieID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[collectionKey{userID, kind, movieID}]
	return ok, nil
}

type memReviewStorage struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]models.Review
	votes   map[int64]map[int64]bool
	clock   ticker
}

func newMemReviewStorage() *memReviewStorage {
	return &memReviewStorage{
		reviews: make(map[int64]models.Review),
		votes:   make(map[int64]map[int64]bool),
		clock:   ticker{base: time.Now()},
	}
}

func (s *memReviewStorage) Insert(_ context.Context, userID int64, movieID string, rating int, content string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	review := models.Review{
		ID:            s.nextID,
		UserID:        userID,
		MovieID:       movieID,
		Rating:        rating,
		Content:       content,
		CreatedAt:     s.clock.next(),
		AuthorEmail:   "test@example.com",
		HelpfulVoters: []int64{},
	}
	s.reviews[review.ID] = review
	s.votes[review.ID] = make(map[int64]bool)
	return &review, nil
}

func (s *memReviewStorage) withVoters(review models.Review) models.Review {
	voters := []int64{}
	for userID := range s.votes[review.ID] {
		voters = append(voters, userID)
	}
	sort.Slice(voters, func(i, j int) bool { return voters[i] < voters[j] })
	review.HelpfulVoters = voters
	return review
}

func (s *memReviewStorage) Get(_ context.Context, id int64) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	review = s.withVoters(review)
	return &review, nil
}

func (s *memReviewStorage) list(match func(models.Review) bool) []models.Review {
	var reviewsList []models.Review
	for _, review := range s.reviews {
		if match(review) {
			reviewsList = append(reviewsList, s.withVoters(review))
		}
	}
	sort.Slice(reviewsList, func(i, j int) bool {
		return reviewsList[i].CreatedAt.After(reviewsList[j].CreatedAt)
	})
	return reviewsList
}

func (s *memReviewStorage) ListForMovie(_ context.Context, movieID string) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(r models.Review) bool { return r.MovieID == movieID }), nil
}

func (s *memReviewStorage) ListForUser(_ context.Context, userID int64) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(r models.Review) bool { return r.UserID == userID }), nil
}

func (s *memReviewStorage) List(_ context.Context, f *filters.Filters) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reviewsList := s.list(func(models.Review) bool { return true })
	offset := f.Offset()
	if offset >= len(reviewsList) {
		return []models.Review{}, nil
	}
	end := offset + f.Limit()
	if end > len(reviewsList) {
		end = len(reviewsList)
	}
	return reviewsList[offset:end], nil
}

func (s *memReviewStorage) ToggleHelpful(_ context.Context, reviewID, userID int64) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[reviewID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if s.votes[reviewID][userID] {
		delete(s.votes[reviewID], userID)
	} else {
		s.votes[reviewID][userID] = true
	}
	review = s.withVoters(review)
	return &review, nil
}

func (s *memReviewStorage) Delete(_ context.Context, reviewID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[reviewID]
	if !ok || review.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.reviews, reviewID)
	delete(s.votes, reviewID)
	return nil
}
