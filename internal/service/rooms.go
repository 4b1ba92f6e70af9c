package service

import (
	"context"

	"github.com/iliyamo/hotel-room-reservation/internal/calendar"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// RoomService wraps the room repository with the window rules: new rooms
// open WindowDays consecutive days from today and every stored window is
// sorted without duplicates.
type RoomService struct {
	Rooms      repository.RoomRepository
	Clock      calendar.Clock
	WindowDays int
}

func NewRoomService(rooms repository.RoomRepository, clock calendar.Clock, windowDays int) *RoomService {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if windowDays < 1 {
		windowDays = calendar.DefaultWindowDays
	}
	return &RoomService{Rooms: rooms, Clock: clock, WindowDays: windowDays}
}

func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	return s.Rooms.List(ctx)
}

func (s *RoomService) Get(ctx context.Context, id string) (model.Room, error) {
	return s.Rooms.GetByID(ctx, id)
}

// Create stores r with a fresh window. Any AvailableDates set by the caller
// are replaced.
func (s *RoomService) Create(ctx context.Context, r *model.Room) error {
	r.AvailableDates = calendar.Window(s.WindowDays, s.Clock.Now())
	if r.Images == nil {
		r.Images = []string{}
	}
	return s.Rooms.Create(ctx, r)
}

// Update applies an admin edit. An edited window is normalized before it is
// stored.
func (s *RoomService) Update(ctx context.Context, id string, p model.RoomPatch) (model.Room, error) {
	if p.AvailableDates != nil {
		dates := calendar.Normalize(*p.AvailableDates)
		p.AvailableDates = &dates
	}
	return s.Rooms.Update(ctx, id, p)
}

func (s *RoomService) Delete(ctx context.Context, id string) (model.Room, error) {
	return s.Rooms.Delete(ctx, id)
}
