// Package service holds the room workflows that span more than one
// repository call: creating a room with its initial window, admin edits and
// the booking rotation.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-room-reservation/internal/calendar"
	"github.com/iliyamo/hotel-room-reservation/internal/lock"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

var (
	// ErrDateUnavailable means the requested day is not in the room's window.
	ErrDateUnavailable = errors.New("date not available")
	// ErrInvalidDate means the requested day is not formatted YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// maxSwapAttempts bounds how often a booking re-reads the room after the
// window changed underneath it.
const maxSwapAttempts = 3

const publishTimeout = 3 * time.Second

// BookedMessage is the confirmation text returned to the guest.
const BookedMessage = "reservation completed"

// Confirmation is returned by a successful booking.
type Confirmation struct {
	Message       string `json:"message"`
	Date          string `json:"date"`
	ReservationID string `json:"reservationId"`
}

// BookingService reserves a day of a room and rotates its window.
type BookingService struct {
	Rooms        repository.RoomRepository
	Reservations repository.ReservationRepository
	Locker       lock.Locker
	Clock        calendar.Clock
	Events       Publisher
}

func NewBookingService(rooms repository.RoomRepository, reservations repository.ReservationRepository, locker lock.Locker, clock calendar.Clock, events Publisher) *BookingService {
	if rooms == nil || reservations == nil {
		panic("nil repository passed to NewBookingService")
	}
	if locker == nil {
		locker = lock.NewLocal()
	}
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &BookingService{Rooms: rooms, Reservations: reservations, Locker: locker, Clock: clock, Events: events}
}

// Book reserves date in room roomID for userID.
//
// The read-rotate-write sequence runs under the room's lock and the window
// write is conditional on the window read, so two bookings can never both
// consume the same day. If the reservation cannot be stored afterwards the
// previous window is put back.
func (s *BookingService) Book(ctx context.Context, roomID, userID, date string) (Confirmation, error) {
	if !repository.ValidID(roomID) {
		return Confirmation{}, repository.ErrInvalidID
	}

	release, err := s.Locker.Lock(ctx, roomID)
	if err != nil {
		return Confirmation{}, err
	}
	defer release()

	var room model.Room
	var next []string
	for attempt := 1; ; attempt++ {
		room, err = s.Rooms.GetByID(ctx, roomID)
		if err != nil {
			return Confirmation{}, err
		}
		// A missing room wins over a malformed date.
		if !calendar.ValidDay(date) {
			return Confirmation{}, ErrInvalidDate
		}
		if !calendar.Contains(room.AvailableDates, date) {
			return Confirmation{}, ErrDateUnavailable
		}
		next, err = calendar.Rotate(room.AvailableDates, date, s.Clock.Now())
		if err != nil {
			return Confirmation{}, err
		}
		err = s.Rooms.ReplaceDates(ctx, roomID, room.AvailableDates, next)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrWindowChanged) || attempt == maxSwapAttempts {
			return Confirmation{}, err
		}
		log.Debugf("booking: window of room %s changed, retrying (%d)", roomID, attempt)
	}

	res := model.Reservation{UserID: userID, RoomID: roomID, Date: date}
	if err := s.Reservations.Create(ctx, &res); err != nil {
		if rerr := s.Rooms.ReplaceDates(context.WithoutCancel(ctx), roomID, next, room.AvailableDates); rerr != nil {
			log.Errorf("booking: restoring window of room %s after failed reservation: %v", roomID, rerr)
		}
		return Confirmation{}, err
	}

	s.publish(ctx, room, res)
	return Confirmation{Message: BookedMessage, Date: date, ReservationID: res.ID}, nil
}

func (s *BookingService) publish(ctx context.Context, room model.Room, res model.Reservation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	ev := queue.RoomReservedEvent{
		EventID:       uuid.NewString(),
		ReservationID: res.ID,
		UserID:        res.UserID,
		RoomID:        res.RoomID,
		NumberRoom:    room.NumberRoom,
		RoomTitle:     room.Title,
		Date:          res.Date,
		ReservedAt:    s.Clock.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Events.PublishRoomReserved(ctx, ev); err != nil {
		log.Warnf("booking: room.reserved event for reservation %s not published: %v", res.ID, err)
	}
}
