package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

const seatHoldTTL = 10 * time.Minute

var lockSeatsScript = redis.NewScript(`
    -- KEYS = seat lock keys (e.g., seat_lock:123:1, seat_lock:123:2 etc.)
    -- ARGV = [sessionID, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already locked"} -- Return an error indicator
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

// seatHold is the Redis-side record of a session's held seats for a screening.
type seatHold struct {
	ScreeningID int   `json:"screeningId"`
	SeatIDs     []int `json:"seatIds"`
}

func (app *Application) CreateSeatHold(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	screeningID, err := readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.CreateHoldRequest

	err = app.readJSON(w, r, &req)
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

	sessionID := app.sessionManager.Token(r.Context())

	existing, err := app.redis.Exists(r.Context(), holdSessionKey(sessionID)).Result()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if existing > 0 {
		logger.Warn("hold creation attempt rejected: a hold already exists for this session")
		app.badRequestResponse(w, r, fmt.Errorf("a seat hold already exists for this session"))
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

	seatsByID := make(map[int]domain.Seat, len(seatMap.Seats))
	for _, seat := range seatMap.Seats {
		seatsByID[seat.ID] = seat
	}

	for _, seatID := range req.SeatIdList {
		seat, ok := seatsByID[seatID]
		if !ok {
			app.notFoundResponseWithErr(w, r, fmt.Errorf("%w: seat %d", domain.ErrSeatNotFound, seatID))
			return
		}
		if seat.Booked {
			logger.Warn("hold creation conflict: user selected an already booked seat", "seat_id", seatID)
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already booked"))
			return
		}
	}

	err = app.tryLockSeats(r.Context(), req.SeatIdList, screeningID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyHeld):
			logger.Warn("hold creation conflict due to race condition: user selected an already held seat")
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already held"))
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be acquired: %w", err))
		}

		return
	}

	err = app.storeSeatHold(r.Context(), screeningID, req.SeatIdList, sessionID)
	if err != nil {
		logger.Error("hold creation process failed", "error", err)
		app.serverErrorResponse(w, r, fmt.Errorf("seat hold couldn't be created: %w", err))
		return
	}

	resp := api.HoldResponse{
		ScreeningId: screeningID,
		SeatIdList:  req.SeatIdList,
		HoldTime:    int(seatHoldTTL.Seconds()),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteSeatHold(w http.ResponseWriter, r *http.Request) {
	screeningID, err := readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sessionID := app.sessionManager.Token(r.Context())

	hold, err := app.getSeatHold(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if hold == nil || hold.ScreeningID != screeningID {
		app.notFoundResponse(w, r)
		return
	}

	err = app.releaseSeatHold(r.Context(), sessionID, hold)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) tryLockSeats(ctx context.Context, seatIDs []int, screeningID int, sessionID string) error {
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatLockKey(screeningID, seatID)
	}

	err := lockSeatsScript.Run(ctx, app.redis, keys, sessionID, int(seatHoldTTL.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already locked") {
			return domain.ErrSeatAlreadyHeld
		}

		return err
	}

	return nil
}

func (app *Application) storeSeatHold(ctx context.Context, screeningID int, seatIDs []int, sessionID string) error {
	hold := seatHold{ScreeningID: screeningID, SeatIDs: seatIDs}

	holdBytes, err := json.Marshal(hold)
	if err != nil {
		app.rollbackSeatLocks(ctx, screeningID, seatIDs)
		return err
	}

	seatIdInterfaces := make([]interface{}, len(seatIDs))
	for i, seatID := range seatIDs {
		seatIdInterfaces[i] = seatID
	}

	pipe := app.redis.TxPipeline()
	pipe.SAdd(ctx, seatSetKey(screeningID), seatIdInterfaces...)
	pipe.Set(ctx, holdSessionKey(sessionID), holdBytes, seatHoldTTL)

	_, err = pipe.Exec(ctx)
	if err != nil {
		app.rollbackSeatLocks(ctx, screeningID, seatIDs)
		return err
	}

	return nil
}

func (app *Application) getSeatHold(ctx context.Context, sessionID string) (*seatHold, error) {
	holdBytes, err := app.redis.Get(ctx, holdSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var hold seatHold

	err = json.Unmarshal(holdBytes, &hold)
	if err != nil {
		return nil, err
	}

	return &hold, nil
}

func (app *Application) releaseSeatHold(ctx context.Context, sessionID string, hold *seatHold) error {
	pipe := app.redis.TxPipeline()

	for _, seatID := range hold.SeatIDs {
		pipe.Del(ctx, seatLockKey(hold.ScreeningID, seatID))
		pipe.SRem(ctx, seatSetKey(hold.ScreeningID), seatID)
	}

	pipe.Del(ctx, holdSessionKey(sessionID))

	_, err := pipe.Exec(ctx)

	return err
}

func (app *Application) rollbackSeatLocks(ctx context.Context, screeningID int, seatIDs []int) {
	lockKeys := make([]string, len(seatIDs))
	seatIDInterfaces := make([]interface{}, len(seatIDs))

	for i, seatID := range seatIDs {
		lockKeys[i] = seatLockKey(screeningID, seatID)
		seatIDInterfaces[i] = seatID
	}

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, lockKeys...)
	pipe.SRem(ctx, seatSetKey(screeningID), seatIDInterfaces...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		app.logger.Error("failed to rollback seat locks", "error", err)
		return
	}
}

// migrateSeatHolds re-keys a guest session's hold and seat locks to the new
// session token issued at login.
func (app *Application) migrateSeatHolds(ctx context.Context, oldSessionID, newSessionID string) error {
	hold, err := app.getSeatHold(ctx, oldSessionID)
	if err != nil {
		return fmt.Errorf("failed to get seat hold for session %s: %w", oldSessionID, err)
	}

	if hold == nil {
		return nil
	}

	ttl, err := app.redis.TTL(ctx, holdSessionKey(oldSessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to get TTL for seat hold of session %s: %w", oldSessionID, err)
	}

	if ttl <= 0 {
		// Key either doesn't exist (-2) or is persistent (-1), nothing to carry over
		return nil
	}

	newTTL := ttl + 3*time.Minute
	lockKeys := make([]string, len(hold.SeatIDs))

	for i, seatID := range hold.SeatIDs {
		lockKeys[i] = seatLockKey(hold.ScreeningID, seatID)
	}

	err = app.redis.Watch(ctx, func(tx *redis.Tx) error {
		for _, lockKey := range lockKeys {
			sessionID, err := tx.Get(ctx, lockKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			if sessionID != oldSessionID {
				return fmt.Errorf("seat doesn't belong to current session")
			}
		}

		pipe := tx.TxPipeline()

		for _, lockKey := range lockKeys {
			pipe.Set(ctx, lockKey, newSessionID, newTTL)
		}

		_, err := pipe.Exec(ctx)

		return err
	}, lockKeys...)

	if err != nil {
		return fmt.Errorf(
			"failed to migrate seat locks from old session %s to new session %s: %w",
			oldSessionID,
			newSessionID,
			err)
	}

	holdBytes, err := json.Marshal(hold)
	if err != nil {
		return err
	}

	pipe := app.redis.TxPipeline()

	pipe.Del(ctx, holdSessionKey(oldSessionID))
	pipe.Set(ctx, holdSessionKey(newSessionID), holdBytes, newTTL)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for session migration: %w", err)
	}

	return nil
}

func holdSessionKey(sessionID string) string {
	return fmt.Sprintf("hold:%s", sessionID)
}

func seatLockKey(screeningID, seatID int) string {
	return fmt.Sprintf("seat_lock:%d:%d", screeningID, seatID)
}

func seatSetKey(screeningID int) string {
	return fmt.Sprintf("seat_locks:%d", screeningID)
}
