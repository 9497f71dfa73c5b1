package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	app := NewTestApplication(t)
	router := app.routes()
	_, token := registerTestUser(t, app, "reviewer@example.com")

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", token,
			`{"movie_id": "tt0111161", "rating": 5, "content": "A classic."}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		resp := parseResponse(t, rec)
		review := resp.Data["review"].(map[string]any)
		assert.EqualValues(t, 5, review["rating"])
		assert.Equal(t, "A classic.", review["content"])
	})
	t.Run("rating out of range rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", token,
			`{"movie_id": "tt0111161", "rating": 6, "content": "too good"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := parseResponse(t, rec)
		errs := resp.Data["errors"].(map[string]any)
		assert.Contains(t, errs, "rating")
	})
	t.Run("empty content rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", token,
			`{"movie_id": "tt0111161", "rating": 3, "content": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("requires auth", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", "",
			`{"movie_id": "tt0111161", "rating": 3, "content": "meh"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListReviews(t *testing.T) {
	app := NewTestApplication(t)
	router := app.routes()
	_, token := registerTestUser(t, app, "feed@example.com")

	for i := 1; i <= 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", token,
			fmt.Sprintf(`{"movie_id": "tt0000001", "rating": %d, "content": "review %d"}`, i, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("movie feed is newest first", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reviews/movie/tt0000001", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := parseResponse(t, rec)
		reviews := resp.Data["reviews"].([]any)
		require.Len(t, reviews, 3)
		var contents []string
		for _, rv := range reviews {
			contents = append(contents, rv.(map[string]any)["content"].(string))
		}
		assert.Equal(t, []string{"review 3", "review 2", "review 1"}, contents)
	})
	t.Run("user feed requires auth", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reviews/user", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("user feed is newest first", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reviews/user", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := parseResponse(t, rec)
		require.Len(t, resp.Data["reviews"].([]any), 3)
	})
	t.Run("global feed paginates", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reviews?page=1&page_size=2", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := parseResponse(t, rec)
		assert.Len(t, resp.Data["reviews"].([]any), 2)
	})
	t.Run("bad sort rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reviews?sort=password_hash", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToggleReviewHelpful(t *testing.T) {
	app := NewTestApplication(t)
	router := app.routes()
	_, author := registerTestUser(t, app, "author@example.com")
	voter, voterToken := registerTestUser(t, app, "voter@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", author,
		`{"movie_id": "tt0068646", "rating": 5, "content": "great"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := parseResponse(t, rec)
	reviewID := int64(resp.Data["review"].(map[string]any)["id"].(float64))

	path := fmt.Sprintf("/api/v1/reviews/%d/helpful", reviewID)

	t.Run("first toggle adds the voter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, path, voterToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := parseResponse(t, rec)
		voters := resp.Data["review"].(map[string]any)["helpful"].([]any)
		require.Len(t, voters, 1)
		assert.EqualValues(t, voter.ID, voters[0])
	})
	t.Run("second toggle removes the voter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, path, voterToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := parseResponse(t, rec)
		assert.Empty(t, resp.Data["review"].(map[string]any)["helpful"])
	})
	t.Run("unknown review is not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews/99999/helpful", voterToken, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteReview(t *testing.T) {
	app := NewTestApplication(t)
	router := app.routes()
	_, author := registerTestUser(t, app, "owner@example.com")
	_, stranger := registerTestUser(t, app, "stranger@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/reviews", author,
		`{"movie_id": "tt0133093", "rating": 4, "content": "whoa"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := parseResponse(t, rec)
	reviewID := int64(resp.Data["review"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/api/v1/reviews/%d", reviewID)

	t.Run("non-author cannot delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, path, stranger, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("author deletes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, path, author, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		listRec := doJSON(t, router, http.MethodGet, "/api/v1/reviews/movie/tt0133093", "", "")
		require.Equal(t, http.StatusOK, listRec.Code)
		assert.Empty(t, parseResponse(t, listRec).Data["reviews"])
	})
	t.Run("second delete is not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, path, author, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
