package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

const maxRequestBodyBytes = 1_048_576

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(err)

		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func readIDParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}

	return id, nil
}

func readPagination(r *http.Request) domain.Pagination {
	p := domain.Pagination{Page: 1, PageSize: 20}

	qs := r.URL.Query()

	if page, err := strconv.Atoi(qs.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if pageSize, err := strconv.Atoi(qs.Get("pageSize")); err == nil && pageSize > 0 && pageSize <= 100 {
		p.PageSize = pageSize
	}

	return p
}

func toApiMetadata(metadata domain.Metadata) api.Metadata {
	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		PageSize:     metadata.PageSize,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		TotalRecords: metadata.TotalRecords,
	}
}

func ptr[T any](v T) *T {
	return &v
}

// sendEmail delivers an email on a background goroutine so SMTP latency never
// blocks the response.
func (app *Application) sendEmail(r *http.Request, recipient, templateFile string, data map[string]any) {
	logger := contextGetLogger(r.Context(), app.logger)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("email goroutine panicked", "error", fmt.Sprintf("%s", err))
			}
		}()

		err := app.mailer.Send(recipient, templateFile, data)
		if err != nil {
			logger.Error("failed to send email", "template", templateFile, "error", err.Error())
		}
	}()
}
