package main

import (
	"errors"
	"net/http"

	"cinelog/proj/internal/lib/validator"
	"cinelog/proj/internal/services/auth"
)

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"omitempty,max=100"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}{}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.ValidationError(w, r, validationErrs)
		return
	}
	user, token, err := app.services.Auth.Signup(r.Context(), input.Email, input.Name, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"user": user, "token": token}, "Account created")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}{}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.ValidationError(w, r, validationErrs)
		return
	}
	user, token, err := app.services.Auth.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.Http.Unauthorized(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"user": user, "token": token}, "")
}

func (app *Application) getProfile(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.contextGetUser(r)}, "")
}

func (app *Application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := app.readJSON(w, r, &updates); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if email, ok := updates["email"]; ok {
		if err := app.validator.Var(email, "required,email"); err != nil {
			app.Http.ValidationError(w, r, map[string]string{"email": "Value must be a valid email address"})
			return
		}
	}
	user, err := app.services.Auth.UpdateProfile(r.Context(), app.contextGetUser(r), updates)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownField):
			app.Http.BadRequest(w, r, "Invalid updates")
		case errors.Is(err, auth.ErrEmailTaken):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "Profile updated")
}
