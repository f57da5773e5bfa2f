package app

import (
	"net/http"

	"github.com/selimyuksel/cinema-booking-system/api"
)

func (app *Application) GetHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := app.hallRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.HallListResponse{
		Halls: make([]api.HallResponse, 0, len(halls)),
	}
	for _, hall := range halls {
		resp.Halls = append(resp.Halls, api.HallResponse{
			Id:       hall.ID,
			Name:     hall.Name,
			Capacity: hall.Capacity,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
