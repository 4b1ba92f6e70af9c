package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomRepository stores rooms. Every backend validates ids with ValidID
// and returns ErrInvalidID before touching storage.
type RoomRepository interface {
	// List returns all rooms in insertion order.
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id string) (model.Room, error)
	// Create assigns r.ID and fails with ErrConflict when r.NumberRoom is taken.
	Create(ctx context.Context, r *model.Room) error
	// Update applies the set fields of p and returns the updated room.
	Update(ctx context.Context, id string, p model.RoomPatch) (model.Room, error)
	// Delete removes the room and returns it as it was.
	Delete(ctx context.Context, id string) (model.Room, error)
	// ReplaceDates swaps the window from prev to next in one conditional
	// write. It fails with ErrWindowChanged when the stored window differs
	// from prev.
	ReplaceDates(ctx context.Context, id string, prev, next []string) error
}

// ReservationRepository stores reservations. Reservations are immutable
// once written; only admins delete them.
type ReservationRepository interface {
	// Create assigns r.ID.
	Create(ctx context.Context, r *model.Reservation) error
	List(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	GetByID(ctx context.Context, id string) (model.Reservation, error)
	Delete(ctx context.Context, id string) (model.Reservation, error)
}

// UserRepository stores accounts.
type UserRepository interface {
	// Create assigns u.ID and fails with ErrEmailExists on a taken email.
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// Store bundles the three repositories of one backend.
type Store struct {
	Rooms        RoomRepository        // rooms and their booking windows
	Reservations ReservationRepository // confirmed bookings
	Users        UserRepository        // accounts
	// Close releases the backend's connections. Nil for the memory store.
	Close func(ctx context.Context) error
}

// ValidID reports whether id has the object id format shared by all
// backends.
func ValidID(id string) bool { return primitive.IsValidObjectID(id) }

// NewID returns a fresh object id in hex form.
func NewID() string { return primitive.NewObjectID().Hex() }

func sameDates(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
