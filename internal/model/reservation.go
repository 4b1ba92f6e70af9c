package model

// Reservation links a user to one booked day of a room. It is written once
// per successful booking and never modified.
type Reservation struct {
	ID     string `json:"_id"`
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
	Date   string `json:"date"`
}
