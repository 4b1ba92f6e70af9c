package model

// Room is a bookable hotel room. AvailableDates is the rolling window of
// open days, each formatted YYYY-MM-DD and kept sorted ascending.
//
// The JSON names follow the public API contract, including the historical
// spellings of avaliableDates and tipeRoom.
type Room struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Price          float64  `json:"price"`
	Images         []string `json:"images"`
	Description    string   `json:"description"`
	AvailableDates []string `json:"avaliableDates"`
	NumberRoom     int      `json:"numberRoom"`
	TypeRoom       string   `json:"tipeRoom"`
	Size           string   `json:"size"`
	Capacity       int      `json:"capacity"`
}

// RoomPatch carries the fields of an admin edit. Nil fields are left
// untouched.
type RoomPatch struct {
	Title          *string   `json:"title"`
	Price          *float64  `json:"price"`
	Images         *[]string `json:"images"`
	Description    *string   `json:"description"`
	AvailableDates *[]string `json:"avaliableDates"`
	NumberRoom     *int      `json:"numberRoom"`
	TypeRoom       *string   `json:"tipeRoom"`
	Size           *string   `json:"size"`
	Capacity       *int      `json:"capacity"`
}

// Empty reports whether the patch changes nothing.
func (p RoomPatch) Empty() bool {
	return p.Title == nil && p.Price == nil && p.Images == nil && p.Description == nil &&
		p.AvailableDates == nil && p.NumberRoom == nil && p.TypeRoom == nil &&
		p.Size == nil && p.Capacity == nil
}

// Apply copies the set fields of p onto r.
func (p RoomPatch) Apply(r *Room) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.Images != nil {
		r.Images = append([]string(nil), (*p.Images)...)
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.AvailableDates != nil {
		r.AvailableDates = append([]string(nil), (*p.AvailableDates)...)
	}
	if p.NumberRoom != nil {
		r.NumberRoom = *p.NumberRoom
	}
	if p.TypeRoom != nil {
		r.TypeRoom = *p.TypeRoom
	}
	if p.Size != nil {
		r.Size = *p.Size
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
}
