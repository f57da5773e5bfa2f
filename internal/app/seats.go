package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

// Redis Lua script to clean up expired seat locks and return currently valid locked seat IDs.
var filterValidLockSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local screeningId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local lockKey = "seat_lock:" .. screeningId .. ":" .. seatId
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(validSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

func (app *Application) GetSeatMapByScreening(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	screeningID, err := readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.seatRepo.GetSeatMapByScreening(r.Context(), screeningID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if len(seatMap.Seats) == 0 {
		logger.Warn("seat map not found for screening", "screening_id", screeningID)
		app.notFoundResponse(w, r)
		return
	}

	heldSeatIds, err := app.getHeldSeatIds(r.Context(), screeningID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap, heldSeatIds)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) getHeldSeatIds(ctx context.Context, screeningID int) (map[int]bool, error) {
	cmd := filterValidLockSeats.Run(ctx, app.redis, []string{seatSetKey(screeningID)}, screeningID)
	lockedSeatIds, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidLockSeats script: %w", err)
	}

	heldSeatIds := make(map[int]bool, len(lockedSeatIds))
	for _, seatId := range lockedSeatIds {
		heldSeatIds[int(seatId)] = true
	}

	return heldSeatIds, nil
}

func toSeatMapResponse(seatMap *domain.ScreeningSeatMap, heldSeatIds map[int]bool) api.SeatMapResponse {
	return api.SeatMapResponse{
		ScreeningId: seatMap.ScreeningID,
		HallId:      seatMap.HallID,
		HallName:    seatMap.HallName,
		MovieTitle:  seatMap.MovieTitle,
		SeatRows:    toSeatRows(seatMap.Seats, heldSeatIds),
	}
}

func toSeatRows(seats []domain.Seat, heldSeatIds map[int]bool) []api.SeatRow {
	// Seats are pre-sorted by row letter, seat number (ascending).
	// This allows us to process them in a single pass without additional sorting or mapping.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].RowLetter}

	for _, v := range seats {
		if v.RowLetter != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.RowLetter}
		}

		status := api.SeatStatusAvailable
		switch {
		case v.Booked:
			status = api.SeatStatusBooked
		case heldSeatIds[v.ID]:
			status = api.SeatStatusHeld
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Id:     v.ID,
			Row:    v.RowLetter,
			Number: v.SeatNumber,
			Type:   string(v.Type),
			Status: status,
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
