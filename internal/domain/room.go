package domain

// RoomType carries the rate card and amenities shared by its rooms.
// A missing weekly rate is represented as 0 and handled by the pricing
// fallback.
type RoomType struct {
	ID               string   `json:"id"`
	HostelID         string   `json:"hostelId"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	PricePerSemester float64  `json:"pricePerSemester"`
	PricePerMonth    float64  `json:"pricePerMonth"`
	PricePerWeek     float64  `json:"pricePerWeek,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
}

// Room is a read-only snapshot refreshed by availability polling.
type Room struct {
	ID               string `json:"id"`
	HostelID         string `json:"hostelId"`
	RoomTypeID       string `json:"roomTypeId"`
	Number           string `json:"number"`
	MaxOccupancy     int    `json:"maxOccupancy"`
	CurrentOccupancy int    `json:"currentOccupancy"`
}

// Available reports whether the room still has a free slot in the snapshot.
func (r Room) Available() bool {
	return r.CurrentOccupancy < r.MaxOccupancy
}

type Hostel struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	RoomTypes   []RoomType `json:"roomTypes,omitempty"`
}
