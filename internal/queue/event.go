// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// RoomReservedQueue is the durable queue booking events are routed to.
const RoomReservedQueue = "room.reserved"

// RoomReservedEvent is published when a booking succeeded. It carries
// enough for downstream consumers to log or notify without querying the
// primary database.
type RoomReservedEvent struct {
	EventID       string `json:"event_id"`
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	RoomID        string `json:"room_id"`
	NumberRoom    int    `json:"number_room"`
	RoomTitle     string `json:"room_title"`
	Date          string `json:"date"`
	ReservedAt    string `json:"reserved_at"`
}
