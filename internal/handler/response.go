package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// Envelope status values.
const (
	statusOK      = "OK"
	statusCreated = "Created"
	statusErr     = "ERR"
)

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, echo.Map{"status": statusOK, "data": data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, echo.Map{"status": statusCreated, "data": data})
}

func fail(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"status": statusErr, "data": data})
}

// respondErr maps a service or repository error onto the API's error
// responses. what names the entity for not-found messages.
func respondErr(c echo.Context, err error, what string) error {
	var verr ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, repository.ErrInvalidID):
		return fail(c, http.StatusBadRequest, "invalid id")
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusBadRequest, "numberRoom already exists")
	case errors.Is(err, repository.ErrEmailExists):
		return fail(c, http.StatusBadRequest, "email already exists")
	case errors.Is(err, service.ErrDateUnavailable), errors.Is(err, service.ErrInvalidDate):
		return fail(c, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}
}

// bind decodes the request into dst. A value of the wrong JSON type is
// reported against its field; any other decode failure against "body".
func bind(c echo.Context, dst any) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return ValidationError{Fields: []FieldError{{Field: ute.Field, Msg: "must be of type " + ute.Type.String()}}}
	}
	return ValidationError{Fields: []FieldError{{Field: "body", Msg: "invalid JSON body"}}}
}

// bindValid decodes the body into dst and runs the registered validator.
func bindValid(c echo.Context, dst any) error {
	if err := bind(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
