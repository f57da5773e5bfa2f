package app

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	pagination := readPagination(r)

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies:   make([]api.MovieResponse, 0, len(movies)),
		Metadata: toApiMetadata(*metadata),
	}
	for i := range movies {
		resp.Movies = append(resp.Movies, toMovieResponse(&movies[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req api.CreateMovieRequest

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

	movie := &domain.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Director:    req.Director,
		Cast:        req.Cast,
		Synopsis:    req.Synopsis,
		ReleaseDate: req.ReleaseDate,
	}

	err = app.movieRepo.Create(r.Context(), movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieResponse(movie *domain.Movie) api.MovieResponse {
	return api.MovieResponse{
		Id:          movie.ID,
		Title:       movie.Title,
		Genre:       movie.Genre,
		Duration:    movie.Duration,
		Rating:      movie.Rating,
		Director:    movie.Director,
		Cast:        movie.Cast,
		Synopsis:    movie.Synopsis,
		ReleaseDate: movie.ReleaseDate,
	}
}
