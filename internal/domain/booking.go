package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// BookingType is the billing granularity of a stay. Each type has its own
// rate on the room type.
type BookingType string

const (
	BookingTypeSemester BookingType = "semester"
	BookingTypeMonthly  BookingType = "monthly"
	BookingTypeWeekly   BookingType = "weekly"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeSemester, BookingTypeMonthly, BookingTypeWeekly:
		return true
	}
	return false
}

// Booking is a transient copy of a server-owned booking. Status transitions
// (check-in/out, cancellation) happen server-side; this client only re-fetches.
type Booking struct {
	ID               string        `json:"id"`
	StudentID        string        `json:"studentId"`
	HostelID         string        `json:"hostelId"`
	RoomID           string        `json:"roomId"`
	Status           BookingStatus `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	BookingType      BookingType   `json:"bookingType"`
	CheckInDate      string        `json:"checkInDate"`  // yyyy-mm-dd
	CheckOutDate     string        `json:"checkOutDate"` // yyyy-mm-dd
	TotalAmount      float64       `json:"totalAmount"`
	AmountPaid       float64       `json:"amountPaid"`
	AmountDue        float64       `json:"amountDue"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// BookingRequest is the payload posted to the booking-creation endpoint.
type BookingRequest struct {
	HostelID         string      `json:"hostelId"`
	RoomID           string      `json:"roomId"`
	FullName         string      `json:"fullName"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	BookingType      BookingType `json:"bookingType"`
	CheckInDate      string      `json:"checkInDate"`
	CheckOutDate     string      `json:"checkOutDate"`
	TotalAmount      float64     `json:"totalAmount"`
	DepositAmount    float64     `json:"depositAmount"`
	PaymentReference string      `json:"paymentReference"`
}
