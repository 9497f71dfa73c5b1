package main

import (
	"net/http"

	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.Metrics)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Handle("/metrics", metrics.Handler(app.registry))
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.register)
			r.Post("/login", app.login)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(app.requireAuthenticatedUser)
			r.Get("/me", app.getProfile)
			r.Patch("/me", app.updateProfile)
		})
		r.Route("/favorites", app.collectionRoutes(models.KindFavorites, "is_favorite"))
		r.Route("/watchlist", app.collectionRoutes(models.KindWatchlist, "is_in_watchlist"))
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", app.listReviews)
			r.Get("/movie/{movieID}", app.listMovieReviews)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createReview)
				r.Get("/user", app.listMyReviews)
				r.Post("/{id}/helpful", app.toggleReviewHelpful)
				r.Delete("/{id}", app.deleteReview)
			})
		})
	})
	return router
}

// collectionRoutes mounts the same handler set for favorites and watchlist,
// parameterized by collection kind. checkKey names the boolean in the
// membership-check response.
func (app *Application) collectionRoutes(kind models.CollectionKind, checkKey string) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(app.requireAuthenticatedUser)
		r.Post("/", app.addToCollection(kind))
		r.Get("/", app.listCollection(kind))
		r.Delete("/{movieID}", app.removeFromCollection(kind))
		r.Get("/{movieID}", app.checkCollection(kind, checkKey))
	}
}
