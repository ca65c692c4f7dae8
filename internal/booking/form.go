package booking

import (
	"time"

	"github.com/go-playground/validator/v10"

	"hostelbook-client/internal/domain"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Form holds the user-edited booking fields. Contact fields are prefilled
// from the profile when the session opens.
type Form struct {
	FullName     string             `validate:"required"`
	Email        string             `validate:"required,email"`
	Phone        string             `validate:"required"`
	BookingType  domain.BookingType `validate:"required"`
	CheckInDate  string             `validate:"required"`
	CheckOutDate string             `validate:"required"`
}

// FieldErrors maps a form field to its validation message, for inline
// display. Empty means the form is valid.
type FieldErrors map[string]string

func (e FieldErrors) Any() bool { return len(e) > 0 }

// Validate checks the form against the submission rules: required contact
// fields, a well-formed email, both dates present, checkout strictly after
// checkin, and a checkin no earlier than today (relative to now).
func (f *Form) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}

	if err := validate.Struct(f); err != nil {
		if invalid, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range invalid {
				errs[fe.Field()] = messageFor(fe)
			}
		} else {
			errs["form"] = err.Error()
		}
	}

	f.validateDates(now, errs)
	return errs
}

// DatesValid reports whether the date pair alone passes validation; the
// poller keys its lifecycle off this.
func (f *Form) DatesValid(now time.Time) bool {
	if f.CheckInDate == "" || f.CheckOutDate == "" {
		return false
	}
	errs := FieldErrors{}
	f.validateDates(now, errs)
	return !errs.Any()
}

func (f *Form) validateDates(now time.Time, errs FieldErrors) {
	if f.CheckInDate == "" || f.CheckOutDate == "" {
		return // "required" already reported
	}

	checkIn, err := time.Parse(dateLayout, f.CheckInDate)
	if err != nil {
		errs["CheckInDate"] = "check-in date must be yyyy-mm-dd"
		return
	}
	checkOut, err := time.Parse(dateLayout, f.CheckOutDate)
	if err != nil {
		errs["CheckOutDate"] = "check-out date must be yyyy-mm-dd"
		return
	}

	if !checkOut.After(checkIn) {
		errs["CheckOutDate"] = "check-out date must be after check-in date"
	}

	today, _ := time.Parse(dateLayout, now.Format(dateLayout))
	if checkIn.Before(today) {
		errs["CheckInDate"] = "check-in date cannot be in the past"
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	}
	return "invalid value"
}

// Prefill copies profile contact details into the form, leaving any field
// the user already edited alone.
func (f *Form) Prefill(p *domain.Profile) {
	if p == nil {
		return
	}
	if f.FullName == "" {
		f.FullName = p.FullName
	}
	if f.Email == "" {
		f.Email = p.Email
	}
	if f.Phone == "" {
		f.Phone = p.Phone
	}
}
