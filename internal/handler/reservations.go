package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// ReservationHandler lists and manages reservations. Reservations are
// created only through RoomHandler.Book.
type ReservationHandler struct {
	Reservations repository.ReservationRepository // reads and admin deletes
}

// NewReservationHandler constructs the handler. reservations must be non-nil.
func NewReservationHandler(reservations repository.ReservationRepository) *ReservationHandler {
	if reservations == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

// Mine handles GET /reservation. It lists only the reservations made by
// the caller, identified by the user id in the access token.
func (h *ReservationHandler) Mine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	list, err := h.Reservations.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, err, "reservation")
	}
	return ok(c, list)
}

// List handles GET /reservations/admin. Admins see every reservation of
// every user.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	list, err := h.Reservations.List(ctx)
	if err != nil {
		return respondErr(c, err, "reservation")
	}
	return ok(c, list)
}

// Get handles GET /reservations/admin/one/:rid. A malformed id yields 400
// and an unknown one 404.
func (h *ReservationHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	res, err := h.Reservations.GetByID(ctx, c.Param("rid"))
	if err != nil {
		return respondErr(c, err, "reservation")
	}
	return ok(c, res)
}

// Delete handles DELETE /reservations/admin/:rid. The room window is not
// touched; the consumed day stays consumed.
func (h *ReservationHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	res, err := h.Reservations.Delete(ctx, c.Param("rid"))
	if err != nil {
		return respondErr(c, err, "reservation")
	}
	return ok(c, res)
}
