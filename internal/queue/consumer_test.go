package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ev := RoomReservedEvent{
		EventID:       "e1",
		ReservationID: "r1",
		UserID:        "u1",
		RoomID:        "room1",
		NumberRoom:    12,
		RoomTitle:     "Suite",
		Date:          "2024-01-05",
		ReservedAt:    "2024-01-01T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, HandleMessage(dir, body))
	require.NoError(t, HandleMessage(dir, body))

	data, err := os.ReadFile(filepath.Join(dir, "booking.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2024-01-01T10:00:00Z] Room reserved | reservation_id=r1 | user_id=u1 | room_id=room1 | room=12 "Suite" | date=2024-01-05`, lines[0])
}

func TestHandleMessage_Rejects(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleMessage(dir, []byte("{not json")))
	assert.Error(t, HandleMessage(dir, []byte(`{"room_id":"x"}`)))

	_, err := os.Stat(filepath.Join(dir, "booking.log"))
	assert.True(t, os.IsNotExist(err))
}
