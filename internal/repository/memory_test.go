package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func newRoom(number int) *model.Room {
	return &model.Room{
		Title:          "Suite",
		Price:          120,
		Description:    "Sea view",
		AvailableDates: []string{"2024-01-01", "2024-01-02"},
		NumberRoom:     number,
		TypeRoom:       "double",
		Size:           "30m2",
		Capacity:       2,
	}
}

func TestMemoryRooms_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Rooms

	room := newRoom(101)
	require.NoError(t, repo.Create(ctx, room))
	require.True(t, ValidID(room.ID))

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, *room, got)

	again, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestMemoryRooms_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Rooms

	require.NoError(t, repo.Create(ctx, newRoom(7)))
	assert.ErrorIs(t, repo.Create(ctx, newRoom(7)), ErrConflict)

	rooms, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestMemoryRooms_IdentifierErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Rooms

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = repo.GetByID(ctx, NewID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Delete(ctx, NewID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(ctx, "123", model.RoomPatch{})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryRooms_UpdateNumberConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Rooms
	a, b := newRoom(1), newRoom(2)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	taken := 1
	_, err := repo.Update(ctx, b.ID, model.RoomPatch{NumberRoom: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	same := 2
	title := "Renamed"
	got, err := repo.Update(ctx, b.ID, model.RoomPatch{NumberRoom: &same, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestMemoryRooms_ReplaceDates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Rooms
	room := newRoom(5)
	require.NoError(t, repo.Create(ctx, room))

	next := []string{"2024-01-02", "2024-01-03"}
	require.NoError(t, repo.ReplaceDates(ctx, room.ID, room.AvailableDates, next))

	// the old snapshot is stale now
	assert.ErrorIs(t, repo.ReplaceDates(ctx, room.ID, room.AvailableDates, next), ErrWindowChanged)
	assert.ErrorIs(t, repo.ReplaceDates(ctx, NewID(), next, next), ErrNotFound)

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.AvailableDates)
}

func TestMemoryReservations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Reservations

	alice, bob := NewID(), NewID()
	for i, user := range []string{alice, bob, alice} {
		require.NoError(t, repo.Create(ctx, &model.Reservation{UserID: user, RoomID: NewID(), Date: fmt.Sprintf("2024-01-0%d", i+1)}))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2024-01-01", mine[0].Date)

	deleted, err := repo.Delete(ctx, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, mine[0], deleted)

	_, err = repo.GetByID(ctx, mine[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Delete(ctx, mine[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Delete(ctx, "zzz")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Users

	u := &model.User{Email: "  Guest@Example.com ", Role: model.RoleUser, Active: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "guest@example.com", u.Email)

	assert.ErrorIs(t, repo.Create(ctx, &model.User{Email: "GUEST@example.com"}), ErrEmailExists)

	got, err := repo.GetByEmail(ctx, "guest@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1452}))
	assert.False(t, isDuplicate(ErrConflict))
}

func TestListEncoding(t *testing.T) {
	text, err := encodeList(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	got, err := decodeList(`["2024-01-01","2024-01-02"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, got)

	got, err = decodeList("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
