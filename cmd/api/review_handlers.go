package main

import (
	"errors"
	"net/http"

	"cinelog/proj/internal/domain/filters"
	"cinelog/proj/internal/lib/validator"
	"cinelog/proj/internal/services/reviews"

	"github.com/go-chi/chi/v5"
)

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	input := struct {
		MovieID string `json:"movie_id" validate:"required,max=64"`
		Rating  int    `json:"rating" validate:"required,min=1,max=5" errorMsg:"Rating must be between 1 and 5"`
		Content string `json:"content" validate:"required,max=5000"`
	}{}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.ValidationError(w, r, validationErrs)
		return
	}
	user := app.contextGetUser(r)
	review, err := app.services.Reviews.Create(r.Context(), user.ID, input.MovieID, input.Rating, input.Content)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "Review created")
}

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	f := filters.Filters{
		Page:         1,
		PageSize:     20,
		Sort:         "-created_at",
		SortSafelist: []string{"created_at", "rating"},
	}
	if err := app.decodeQuery(&f, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "invalid query parameters")
		return
	}
	if !f.Valid() {
		app.Http.BadRequest(w, r, "invalid page, page_size or sort parameter")
		return
	}
	reviewsList, err := app.services.Reviews.ListAll(r.Context(), &f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviewsList}, "")
}

func (app *Application) listMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")
	reviewsList, err := app.services.Reviews.ListByMovie(r.Context(), movieID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviewsList}, "")
}

func (app *Application) listMyReviews(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	reviewsList, err := app.services.Reviews.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviewsList}, "")
}

func (app *Application) toggleReviewHelpful(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	user := app.contextGetUser(r)
	review, err := app.services.Reviews.ToggleHelpful(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	user := app.contextGetUser(r)
	if err := app.services.Reviews.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found or unauthorized")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, nil, "Review deleted successfully")
}
