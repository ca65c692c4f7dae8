package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hostelbook-client/internal/domain"
)

func TestDaysBetween(t *testing.T) {
	t.Run("Simple range", func(t *testing.T) {
		assert.Equal(t, 45, DaysBetween("2026-09-01", "2026-10-16"))
	})

	t.Run("Missing inputs", func(t *testing.T) {
		assert.Equal(t, 0, DaysBetween("", "2026-10-16"))
		assert.Equal(t, 0, DaysBetween("2026-09-01", ""))
	})

	t.Run("Unparseable date", func(t *testing.T) {
		assert.Equal(t, 0, DaysBetween("2026/09/01", "2026-10-16"))
	})

	t.Run("Inverted range", func(t *testing.T) {
		assert.Equal(t, 0, DaysBetween("2026-10-16", "2026-09-01"))
	})
}

func TestQuoteSemester(t *testing.T) {
	rates := RateCard{PerSemester: 1500, PerMonth: 400, PerWeek: 120}

	// Flat rate regardless of the range.
	assert.Equal(t, 1500.0, Quote(rates, domain.BookingTypeSemester, "2026-09-01", "2026-09-08"))
	assert.Equal(t, 1500.0, Quote(rates, domain.BookingTypeSemester, "2026-09-01", "2027-01-15"))
	assert.Equal(t, 1500.0, Quote(rates, domain.BookingTypeSemester, "", ""))
}

func TestQuoteMonthly(t *testing.T) {
	rates := RateCard{PerMonth: 400}

	t.Run("45 days rounds up to 2 months", func(t *testing.T) {
		assert.Equal(t, 800.0, Quote(rates, domain.BookingTypeMonthly, "2026-09-01", "2026-10-16"))
	})

	t.Run("Exactly 30 days is 1 month", func(t *testing.T) {
		assert.Equal(t, 400.0, Quote(rates, domain.BookingTypeMonthly, "2026-09-01", "2026-10-01"))
	})

	t.Run("Missing dates yield 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Quote(rates, domain.BookingTypeMonthly, "", "2026-10-01"))
	})
}

func TestQuoteWeekly(t *testing.T) {
	t.Run("10 days rounds up to 2 weeks", func(t *testing.T) {
		rates := RateCard{PerMonth: 400, PerWeek: 120}
		assert.Equal(t, 240.0, Quote(rates, domain.BookingTypeWeekly, "2026-09-01", "2026-09-11"))
	})

	t.Run("No weekly rate falls back to monthly pro-ration", func(t *testing.T) {
		// 10 days, 2 weeks: ceil(400 * 2 / 4) = 200.
		rates := RateCard{PerMonth: 400}
		b := QuoteWithBreakdown(rates, domain.BookingTypeWeekly, "2026-09-01", "2026-09-11")
		assert.True(t, b.FallbackUsed)
		assert.Equal(t, 200.0, b.Total)
	})

	t.Run("Fallback rounds up to a whole amount", func(t *testing.T) {
		// 3 weeks: 350 * 3 / 4 = 262.5, billed as 263.
		rates := RateCard{PerMonth: 350}
		assert.Equal(t, 263.0, Quote(rates, domain.BookingTypeWeekly, "2026-09-01", "2026-09-16"))
	})

	t.Run("No rates at all yields 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Quote(RateCard{}, domain.BookingTypeWeekly, "2026-09-01", "2026-09-11"))
	})
}

func TestQuoteWithBreakdown(t *testing.T) {
	rates := RateCard{PerMonth: 400, PerWeek: 120}

	b := QuoteWithBreakdown(rates, domain.BookingTypeMonthly, "2026-09-01", "2026-10-16")
	assert.Equal(t, 45, b.Days)
	assert.Equal(t, 2, b.Units)
	assert.Equal(t, 400.0, b.UnitRate)
	assert.False(t, b.FallbackUsed)
	assert.Equal(t, 800.0, b.Total)
}

func TestQuoteUnknownType(t *testing.T) {
	rates := RateCard{PerSemester: 1500, PerMonth: 400}
	assert.Equal(t, 0.0, Quote(rates, domain.BookingType("daily"), "2026-09-01", "2026-09-11"))
}
