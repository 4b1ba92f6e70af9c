package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Guards holds the per-route middleware built from configuration. Cache
// wraps cacheable reads, Limit wraps login and booking. Nil entries are
// skipped.
type Guards struct {
	JWTSecret string
	Cache     echo.MiddlewareFunc
	Limit     echo.MiddlewareFunc
}

func (g Guards) auth() echo.MiddlewareFunc { return middleware.JWTAuth(g.JWTSecret) }

func (g Guards) admin() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.auth(), middleware.RequireRole(model.RoleAdmin)}
}

func (g Guards) user() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.auth(), middleware.RequireRole(model.RoleUser, model.RoleAdmin)}
}

func optional(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw))
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers account routes. Register and login are public;
// /auth/me needs any valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	grp := e.Group("/auth")
	grp.POST("/register", a.Register, optional(g.Limit)...)
	grp.POST("/login", a.Login, optional(g.Limit)...)
	grp.GET("/me", a.Me, g.user()...)
}

// Handlers groups everything the API serves.
type Handlers struct {
	Auth         *handler.AuthHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
}

// Register installs the request validator and every route on e.
func Register(e *echo.Echo, h Handlers, g Guards) {
	e.Validator = handler.NewRequestValidator()
	RegisterRoutes(e)
	RegisterAuth(e, h.Auth, g)
	RegisterRooms(e, h.Rooms, g)
	RegisterReservations(e, h.Reservations, g)
}
