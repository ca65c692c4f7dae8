package domain

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleHostelAdmin Role = "hostel_admin"
	RoleStudent     Role = "student"
)

// Profile is the current user's profile, fetched once per booking session to
// prefill the form.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	HostelID string `json:"hostelId,omitempty"`
}

type ProfileUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
