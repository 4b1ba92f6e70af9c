package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// NewMemoryStore returns a Store kept entirely in process memory. It backs
// STORE_DRIVER=memory for local runs and the HTTP tests.
func NewMemoryStore() Store {
	return Store{
		Rooms:        &MemoryRoomRepo{rooms: map[string]model.Room{}},
		Reservations: &MemoryReservationRepo{items: map[string]model.Reservation{}},
		Users:        &MemoryUserRepo{users: map[string]model.User{}},
		Close:        func(context.Context) error { return nil },
	}
}

// MemoryRoomRepo is a map backed RoomRepository. Values are copied in and
// out so callers never share the stored slices.
type MemoryRoomRepo struct {
	mu    sync.RWMutex          // guards rooms and order
	rooms map[string]model.Room // keyed by id
	order []string              // ids in insertion order, for List
}

func (r *MemoryRoomRepo) List(ctx context.Context) ([]model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneRoom(r.rooms[id]))
	}
	return out, nil
}

func (r *MemoryRoomRepo) GetByID(ctx context.Context, id string) (model.Room, error) {
	if !ValidID(id) {
		return model.Room{}, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return model.Room{}, ErrNotFound
	}
	return cloneRoom(room), nil
}

func (r *MemoryRoomRepo) Create(ctx context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.numberTaken(room.NumberRoom, "") {
		return ErrConflict
	}
	room.ID = NewID()
	r.rooms[room.ID] = cloneRoom(*room)
	r.order = append(r.order, room.ID)
	return nil
}

func (r *MemoryRoomRepo) Update(ctx context.Context, id string, p model.RoomPatch) (model.Room, error) {
	if !ValidID(id) {
		return model.Room{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return model.Room{}, ErrNotFound
	}
	if p.NumberRoom != nil && r.numberTaken(*p.NumberRoom, id) {
		return model.Room{}, ErrConflict
	}
	p.Apply(&room)
	r.rooms[id] = cloneRoom(room)
	return cloneRoom(room), nil
}

func (r *MemoryRoomRepo) Delete(ctx context.Context, id string) (model.Room, error) {
	if !ValidID(id) {
		return model.Room{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return model.Room{}, ErrNotFound
	}
	delete(r.rooms, id)
	r.order = removeID(r.order, id)
	return room, nil
}

func (r *MemoryRoomRepo) ReplaceDates(ctx context.Context, id string, prev, next []string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return ErrNotFound
	}
	if !sameDates(room.AvailableDates, prev) {
		return ErrWindowChanged
	}
	room.AvailableDates = append([]string(nil), next...)
	r.rooms[id] = room
	return nil
}

func (r *MemoryRoomRepo) numberTaken(number int, exceptID string) bool {
	for id, room := range r.rooms {
		if id != exceptID && room.NumberRoom == number {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneRoom(r model.Room) model.Room {
	r.Images = append([]string(nil), r.Images...)
	r.AvailableDates = append([]string(nil), r.AvailableDates...)
	return r
}

// MemoryReservationRepo is a map backed ReservationRepository.
type MemoryReservationRepo struct {
	mu    sync.RWMutex                 // guards items and order
	items map[string]model.Reservation // keyed by id
	order []string                     // ids in insertion order
}

func (r *MemoryReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = NewID()
	r.items[res.ID] = *res
	r.order = append(r.order, res.ID)
	return nil
}

func (r *MemoryReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	return r.filter(func(model.Reservation) bool { return true }), nil
}

func (r *MemoryReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return r.filter(func(res model.Reservation) bool { return res.UserID == userID }), nil
}

func (r *MemoryReservationRepo) filter(keep func(model.Reservation) bool) []model.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Reservation{}
	for _, id := range r.order {
		if res := r.items[id]; keep(res) {
			out = append(out, res)
		}
	}
	return out
}

func (r *MemoryReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	if !ValidID(id) {
		return model.Reservation{}, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryReservationRepo) Delete(ctx context.Context, id string) (model.Reservation, error) {
	if !ValidID(id) {
		return model.Reservation{}, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	delete(r.items, id)
	r.order = removeID(r.order, id)
	return res, nil
}

// MemoryUserRepo is a map backed UserRepository. Emails are trimmed,
// lower-cased and unique.
type MemoryUserRepo struct {
	mu    sync.RWMutex          // guards users
	users map[string]model.User // keyed by id
}

func (r *MemoryUserRepo) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	u.ID = NewID()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	if !ValidID(id) {
		return model.User{}, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}
