package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
)

// RegisterReservations registers the guest's own listing at /reservation and
// the admin endpoints under /reservations/admin.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, g Guards) {
	e.GET("/reservation", h.Mine, g.user()...)

	admin := e.Group("/reservations/admin", g.admin()...)
	admin.GET("", h.List)
	admin.GET("/one/:rid", h.Get)
	admin.DELETE("/:rid", h.Delete)
}
