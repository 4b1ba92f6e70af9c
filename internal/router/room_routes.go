package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
)

// RegisterRooms registers the room catalogue, admin room management under
// /rooms/admin and booking under /rooms/reserved.
func RegisterRooms(e *echo.Echo, h *handler.RoomHandler, g Guards) {
	rooms := e.Group("/rooms")
	rooms.GET("", h.List, optional(g.Cache)...)
	rooms.GET("/one/:rid", h.Get, optional(g.Cache)...)

	admin := rooms.Group("/admin", g.admin()...)
	admin.POST("", h.Create)
	admin.PUT("/:rid", h.Update)
	admin.DELETE("/:rid", h.Delete)

	rooms.PUT("/reserved/:rid", h.Book, append(g.user(), optional(g.Limit)...)...)
}
