package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

func (app *Application) GetScreenings(w http.ResponseWriter, r *http.Request) {
	pagination := readPagination(r)

	movieID, _ := strconv.Atoi(r.URL.Query().Get("movieId"))
	if movieID < 0 {
		movieID = 0
	}

	screenings, metadata, err := app.screeningRepo.GetAll(r.Context(), movieID, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ScreeningListResponse{
		Screenings: make([]api.ScreeningResponse, 0, len(screenings)),
		Metadata:   toApiMetadata(*metadata),
	}
	for i := range screenings {
		resp.Screenings = append(resp.Screenings, toScreeningResponse(&screenings[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req api.CreateScreeningRequest

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

	movie, err := app.movieRepo.GetById(r.Context(), req.MovieId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "movie does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	hall, err := app.hallRepo.GetById(r.Context(), req.HallId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "hall does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	screening := &domain.Screening{
		MovieID:   movie.ID,
		HallID:    hall.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if req.TicketPrice != nil {
		screening.TicketPrice = *req.TicketPrice
	} else {
		screening.TicketPrice = domain.SuggestTicketPrice(hall.Name)
	}

	err = app.screeningRepo.Create(r.Context(), screening)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrScheduleConflict):
			app.errorResponse(w, r, http.StatusConflict, "hall already has a screening in this time range")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.ScreeningResponse{
		Id:             screening.ID,
		MovieId:        movie.ID,
		MovieTitle:     movie.Title,
		HallId:         hall.ID,
		HallName:       hall.Name,
		StartTime:      screening.StartTime,
		EndTime:        screening.EndTime,
		TicketPrice:    screening.TicketPrice,
		AvailableSeats: hall.Capacity,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toScreeningResponse(s *domain.ScreeningSummary) api.ScreeningResponse {
	return api.ScreeningResponse{
		Id:             s.ID,
		MovieId:        s.MovieID,
		MovieTitle:     s.MovieTitle,
		HallId:         s.HallID,
		HallName:       s.HallName,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		TicketPrice:    s.TicketPrice,
		AvailableSeats: s.AvailableSeats,
	}
}
