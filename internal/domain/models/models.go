package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name,omitempty" db:"name"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// AnonymousUser marks a request that carried no (valid) bearer token.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser || u == nil
}

// CollectionKind discriminates the two per-user movie collections.
// Favorites and watchlist share shape and invariants, so they live in one
// table and are served by one manager keyed by kind.
type CollectionKind string

const (
	KindFavorites CollectionKind = "favorites"
	KindWatchlist CollectionKind = "watchlist"
)

type CollectionEntry struct {
	ID      int64          `json:"id" db:"id"`
	UserID  int64          `json:"user_id" db:"user_id"`
	MovieID string         `json:"movie_id" db:"movie_id"` // external catalog identifier, opaque
	Kind    CollectionKind `json:"-" db:"kind"`
	AddedAt time.Time      `json:"added_at" db:"added_at"`
}

type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	MovieID   string    `json:"movie_id" db:"movie_id"`
	Rating    int       `json:"rating" db:"rating"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	// AuthorEmail is a read-side join, "Anonymous" when the author row is gone.
	AuthorEmail string `json:"user_email,omitempty" db:"user_email"`
	// HelpfulVoters holds the IDs of users who marked the review helpful.
	HelpfulVoters []int64 `json:"helpful" db:"helpful"`
}
