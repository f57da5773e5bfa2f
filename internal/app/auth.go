package app

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

func (app *Application) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			app.failedValidationResponse(w, r, errs)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.RoleCustomer,
	}

	err = user.Password.Set(req.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Create(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			app.errorResponse(w, r, http.StatusConflict, "a user with this email address already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.sendEmail(r, user.Email, "user_welcome.tmpl", map[string]any{
		"firstName": user.FirstName,
	})

	err = app.writeJSON(w, http.StatusCreated, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateStaffUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateStaffRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			app.failedValidationResponse(w, r, errs)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
	}

	err = user.Password.Set(req.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Create(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			app.errorResponse(w, r, http.StatusConflict, "a user with this email address already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	if app.sessionManager.Exists(r.Context(), SessionKeyUserId) {
		resp := api.AlreadyLoggedInResponse{Message: "already logged in"}

		err := app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var req api.LoginRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			app.failedValidationResponse(w, r, errs)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	user, err := app.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.Password.Matches(req.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	// Carry guest seat holds over to the authenticated session before the
	// token is rotated.
	guestToken := app.sessionManager.Token(r.Context())

	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), SessionKeyUserId, user.ID)
	app.sessionManager.Put(r.Context(), SessionKeyUserRole, string(user.Role))

	err = app.migrateSeatHolds(r.Context(), guestToken, app.sessionManager.Token(r.Context()))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Logout(w http.ResponseWriter, r *http.Request) {
	err := app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := contextGetUserId(app.sessionManager, r)

	user, err := app.userRepo.GetById(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.unauthorizedAccessResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toUserResponse(user *domain.User) api.UserResponse {
	return api.UserResponse{
		Id:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
