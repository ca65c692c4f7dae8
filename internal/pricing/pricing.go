// Package pricing computes the displayed booking total from a room type's
// rate card and the selected stay. It is pure and side-effect free; the
// server recomputes the authoritative amount on submission.
package pricing

import (
	"math"
	"time"

	"hostelbook-client/internal/domain"
)

const dateLayout = "2006-01-02"

// RateCard is the per-granularity rate table of a room type. A zero PerWeek
// means no weekly rate is published and the monthly pro-ration applies.
type RateCard struct {
	PerSemester float64
	PerMonth    float64
	PerWeek     float64
}

// RateCardFor extracts the rate card from a room type snapshot.
func RateCardFor(rt domain.RoomType) RateCard {
	return RateCard{
		PerSemester: rt.PricePerSemester,
		PerMonth:    rt.PricePerMonth,
		PerWeek:     rt.PricePerWeek,
	}
}

// Breakdown explains how a quote was composed.
type Breakdown struct {
	Days         int
	Units        int // billed months or weeks; 0 for semester
	UnitRate     float64
	FallbackUsed bool // weekly quote derived from the monthly rate
	Total        float64
}

// DaysBetween returns the number of calendar days from checkIn to checkOut
// (yyyy-mm-dd). It returns 0 when either date is missing, unparseable, or
// the range is not strictly positive.
func DaysBetween(checkIn, checkOut string) int {
	if checkIn == "" || checkOut == "" {
		return 0
	}
	start, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return 0
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Quote returns the displayed total for the stay. It never fails: missing
// inputs yield 0. Semester bookings are flat-rate regardless of the range.
func Quote(rates RateCard, bookingType domain.BookingType, checkIn, checkOut string) float64 {
	return QuoteWithBreakdown(rates, bookingType, checkIn, checkOut).Total
}

// QuoteWithBreakdown is Quote with the billed units exposed, for receipts
// and logging.
func QuoteWithBreakdown(rates RateCard, bookingType domain.BookingType, checkIn, checkOut string) Breakdown {
	switch bookingType {
	case domain.BookingTypeSemester:
		return Breakdown{UnitRate: rates.PerSemester, Total: rates.PerSemester}

	case domain.BookingTypeMonthly:
		days := DaysBetween(checkIn, checkOut)
		if days == 0 || rates.PerMonth <= 0 {
			return Breakdown{Days: days}
		}
		months := ceilDiv(days, 30)
		return Breakdown{
			Days:     days,
			Units:    months,
			UnitRate: rates.PerMonth,
			Total:    float64(months) * rates.PerMonth,
		}

	case domain.BookingTypeWeekly:
		days := DaysBetween(checkIn, checkOut)
		if days == 0 {
			return Breakdown{}
		}
		weeks := ceilDiv(days, 7)
		if rates.PerWeek > 0 {
			return Breakdown{
				Days:     days,
				Units:    weeks,
				UnitRate: rates.PerWeek,
				Total:    float64(weeks) * rates.PerWeek,
			}
		}
		if rates.PerMonth <= 0 {
			return Breakdown{Days: days}
		}
		// No weekly rate published: pro-rate the monthly rate at 4 weeks
		// per month, rounded up to a whole amount.
		total := math.Ceil(rates.PerMonth * float64(weeks) / 4)
		return Breakdown{
			Days:         days,
			Units:        weeks,
			UnitRate:     rates.PerMonth / 4,
			FallbackUsed: true,
			Total:        total,
		}
	}
	return Breakdown{}
}

func ceilDiv(n, d int) int {
	units := n / d
	if n%d > 0 {
		units++
	}
	return units
}
