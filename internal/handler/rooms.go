package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

const requestTimeout = 5 * time.Second

// CachePurger drops cached room responses. *middleware.RoomCache satisfies it.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// RoomHandler serves the room catalogue, admin room management and booking.
//
// Reads are public and may be answered from the response cache; every
// successful mutation purges that cache so the next read sees the change.
// Booking goes through BookingService, which owns the per-room lock and the
// window rotation.
type RoomHandler struct {
	Rooms   *service.RoomService    // catalogue reads and admin edits
	Booking *service.BookingService // reserve a day and rotate the window
	Cache   CachePurger             // nil when Redis is not configured
}

// NewRoomHandler wires the handler. cache may be nil.
func NewRoomHandler(rooms *service.RoomService, booking *service.BookingService, cache CachePurger) *RoomHandler {
	if rooms == nil || booking == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Booking: booking, Cache: cache}
}

// createRoomReq is the POST /rooms/admin body. Numeric fields accept a
// number or a numeric string.
type createRoomReq struct {
	Title       string      `json:"title" validate:"required,min=2,max=32"`
	Price       *flexNumber `json:"price" validate:"required,numeric,gte=0"`
	Images      []string    `json:"images"`
	Description string      `json:"description" validate:"required,min=2,max=100"`
	NumberRoom  *flexNumber `json:"numberRoom" validate:"required,numeric,whole,gte=0"`
	TypeRoom    string      `json:"tipeRoom" validate:"required,min=2,max=32"`
	Size        string      `json:"size" validate:"required,min=2,max=32"`
	Capacity    *flexNumber `json:"capacity" validate:"required,numeric,whole,gte=1"`
}

func (r *createRoomReq) tidy() {
	r.Title = collapseSpaces(r.Title)
	r.Description = collapseSpaces(r.Description)
	r.TypeRoom = collapseSpaces(r.TypeRoom)
	r.Size = collapseSpaces(r.Size)
}

func (r createRoomReq) room() model.Room {
	return model.Room{
		Title:       r.Title,
		Price:       r.Price.Float(),
		Images:      r.Images,
		Description: r.Description,
		NumberRoom:  r.NumberRoom.Int(),
		TypeRoom:    r.TypeRoom,
		Size:        r.Size,
		Capacity:    r.Capacity.Int(),
	}
}

// updateRoomReq is the PUT /rooms/admin/:rid body. Absent fields are left
// untouched, present ones follow the create rules.
type updateRoomReq struct {
	Title          *string     `json:"title" validate:"omitempty,min=2,max=32"`
	Price          *flexNumber `json:"price" validate:"omitempty,numeric,gte=0"`
	Images         *[]string   `json:"images"`
	Description    *string     `json:"description" validate:"omitempty,min=2,max=100"`
	AvailableDates *[]string   `json:"avaliableDates" validate:"omitempty,dive,datetime=2006-01-02"`
	NumberRoom     *flexNumber `json:"numberRoom" validate:"omitempty,numeric,whole,gte=0"`
	TypeRoom       *string     `json:"tipeRoom" validate:"omitempty,min=2,max=32"`
	Size           *string     `json:"size" validate:"omitempty,min=2,max=32"`
	Capacity       *flexNumber `json:"capacity" validate:"omitempty,numeric,whole,gte=1"`
}

func (r *updateRoomReq) tidy() {
	for _, s := range []*string{r.Title, r.Description, r.TypeRoom, r.Size} {
		if s != nil {
			*s = collapseSpaces(*s)
		}
	}
}

func (r updateRoomReq) patch() model.RoomPatch {
	return model.RoomPatch{
		Title:          r.Title,
		Price:          floatPtr(r.Price),
		Images:         r.Images,
		Description:    r.Description,
		AvailableDates: r.AvailableDates,
		NumberRoom:     intPtr(r.NumberRoom),
		TypeRoom:       r.TypeRoom,
		Size:           r.Size,
		Capacity:       intPtr(r.Capacity),
	}
}

// bookReq is the PUT /rooms/reserved/:rid body. The date format is checked
// by the booking service once the room is known to exist.
type bookReq struct {
	Date string `json:"date" validate:"required"`
}

// List handles GET /rooms. It is public and returns every room with its
// current window of available dates, in insertion order.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return respondErr(c, err, "room")
	}
	return ok(c, rooms)
}

// Get handles GET /rooms/one/:rid. A malformed id yields 400 and an
// unknown one 404.
func (h *RoomHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	room, err := h.Rooms.Get(ctx, c.Param("rid"))
	if err != nil {
		return respondErr(c, err, "room")
	}
	return ok(c, room)
}

// Create handles POST /rooms/admin. The window is always generated from
// today; any avaliableDates in the body is ignored. Field violations come
// back as a 400 list of {field, msg} and a taken numberRoom as a 400
// string. On success it returns 201 with the stored room.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := bind(c, &req); err != nil {
		return respondErr(c, err, "room")
	}
	req.tidy()
	if err := c.Validate(&req); err != nil {
		return respondErr(c, err, "room")
	}

	room := req.room()
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return respondErr(c, err, "room")
	}
	h.purge(ctx)
	return created(c, room)
}

// Update handles PUT /rooms/admin/:rid. Only the fields present in the body
// are validated and written.
func (h *RoomHandler) Update(c echo.Context) error {
	var req updateRoomReq
	if err := bind(c, &req); err != nil {
		return respondErr(c, err, "room")
	}
	req.tidy()
	if err := c.Validate(&req); err != nil {
		return respondErr(c, err, "room")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	room, err := h.Rooms.Update(ctx, c.Param("rid"), req.patch())
	if err != nil {
		return respondErr(c, err, "room")
	}
	h.purge(ctx)
	return ok(c, room)
}

// Delete handles DELETE /rooms/admin/:rid and returns the removed room.
func (h *RoomHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	room, err := h.Rooms.Delete(ctx, c.Param("rid"))
	if err != nil {
		return respondErr(c, err, "room")
	}
	h.purge(ctx)
	return ok(c, room)
}

// Book handles PUT /rooms/reserved/:rid for the authenticated user. The
// body names one day of the room's window. On success the day leaves the
// window, a reservation is stored and 201 carries the confirmation. A day
// outside the window yields 400 "date not available".
func (h *RoomHandler) Book(c echo.Context) error {
	var req bookReq
	if err := bindValid(c, &req); err != nil {
		return respondErr(c, err, "room")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	conf, err := h.Booking.Book(ctx, c.Param("rid"), middleware.UserID(c), req.Date)
	if err != nil {
		return respondErr(c, err, "room")
	}
	h.purge(ctx)
	return created(c, conf)
}

func (h *RoomHandler) purge(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Purge(context.WithoutCancel(ctx)); err != nil {
		log.Warnf("room cache purge: %v", err)
	}
}
