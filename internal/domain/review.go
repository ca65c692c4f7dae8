package domain

import "time"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
	ReviewStatusFlagged  ReviewStatus = "flagged"
)

// Review is student-authored. The only client mutation is appending a hostel
// response string via the response endpoint.
type Review struct {
	ID         string         `json:"id"`
	HostelID   string         `json:"hostelId"`
	StudentID  string         `json:"studentId"`
	Rating     int            `json:"rating"`
	Comment    string         `json:"comment"`
	SubRatings map[string]int `json:"subRatings,omitempty"` // per-category (cleanliness, security, ...)
	Status     ReviewStatus   `json:"status"`
	Response   string         `json:"response,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
