package main

import (
	"errors"
	"net/http"

	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/lib/validator"
	"cinelog/proj/internal/services/collections"

	"github.com/go-chi/chi/v5"
)

func (app *Application) addToCollection(kind models.CollectionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := struct {
			MovieID string `json:"movie_id" validate:"required,max=64"`
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
		entry, err := app.services.Collections.Add(r.Context(), user.ID, kind, input.MovieID)
		if err != nil {
			if errors.Is(err, collections.ErrAlreadyInCollection) {
				app.Http.Conflict(w, r, "Movie already in "+string(kind))
				return
			}
			app.Http.ServerError(w, r, err, "")
			return
		}
		app.Http.Created(w, r, envelop{"entry": entry}, "Added to "+string(kind))
	}
}

func (app *Application) listCollection(kind models.CollectionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := app.contextGetUser(r)
		entries, err := app.services.Collections.List(r.Context(), user.ID, kind)
		if err != nil {
			app.Http.ServerError(w, r, err, "")
			return
		}
		app.Http.Ok(w, r, envelop{"entries": entries}, "")
	}
}

// removeFromCollection is idempotent, deleting an absent entry still
// reports success.
func (app *Application) removeFromCollection(kind models.CollectionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID := chi.URLParam(r, "movieID")
		user := app.contextGetUser(r)
		if err := app.services.Collections.Remove(r.Context(), user.ID, kind, movieID); err != nil {
			app.Http.ServerError(w, r, err, "")
			return
		}
		app.Http.Ok(w, r, nil, "Removed from "+string(kind))
	}
}

func (app *Application) checkCollection(kind models.CollectionKind, checkKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID := chi.URLParam(r, "movieID")
		user := app.contextGetUser(r)
		exists, err := app.services.Collections.Contains(r.Context(), user.ID, kind, movieID)
		if err != nil {
			app.Http.ServerError(w, r, err, "")
			return
		}
		app.Http.Ok(w, r, envelop{checkKey: exists}, "")
	}
}
