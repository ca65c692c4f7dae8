package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"hostelbook-client/internal/api"
	"hostelbook-client/internal/booking"
	"hostelbook-client/internal/config"
	"hostelbook-client/internal/domain"
	"hostelbook-client/internal/notify"
	"hostelbook-client/internal/payment"
)

// firstPollWait bounds how long the command waits for the first availability
// result before giving up.
const firstPollWait = 15 * time.Second

// runBook drives the whole orchestrated flow: open a session (profile
// prefill + balance), set dates and room type, wait for the poller, select a
// room, pass the deposit gate, and confirm through the chosen payment
// strategy.
func runBook(ctx context.Context, client *api.Client, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	hostelID := fs.String("hostel", "", "Hostel ID")
	roomTypeID := fs.String("room-type", "", "Room type ID")
	roomID := fs.String("room", "", "Room ID (defaults to the first available room)")
	bookingType := fs.String("type", "semester", "Booking type: semester, monthly or weekly")
	checkIn := fs.String("checkin", "", "Check-in date (yyyy-mm-dd)")
	checkOut := fs.String("checkout", "", "Check-out date (yyyy-mm-dd)")
	usePaystack := fs.Bool("paystack", false, "Pay through Paystack instead of the deposit balance")
	topUp := fs.Float64("topup", 0, "Top up this amount first when the balance is short")
	fs.Parse(args)

	if *hostelID == "" || *roomTypeID == "" {
		return fmt.Errorf("book: -hostel and -room-type are required")
	}
	bt := domain.BookingType(*bookingType)
	if !bt.Valid() {
		return fmt.Errorf("book: invalid booking type %q", *bookingType)
	}

	hostel, err := client.GetHostel(ctx, *hostelID)
	if err != nil {
		return err
	}
	var roomType *domain.RoomType
	for i := range hostel.RoomTypes {
		if hostel.RoomTypes[i].ID == *roomTypeID {
			roomType = &hostel.RoomTypes[i]
			break
		}
	}
	if roomType == nil {
		return fmt.Errorf("book: hostel %s has no room type %s", *hostelID, *roomTypeID)
	}

	session := booking.NewSession(client, booking.Options{
		Fee:             cfg.Booking.Fee,
		Currency:        cfg.Booking.Currency,
		ReferencePrefix: cfg.Booking.ReferencePrefix,
		PollInterval:    cfg.PollInterval(),
	}, notify.NewLog())
	defer session.Close()

	if err := session.Open(ctx, *hostelID); err != nil {
		return err
	}
	session.SetBookingType(bt)
	session.SetRoomType(*roomType)
	session.SetDates(*checkIn, *checkOut)

	form := session.Form()
	if !form.DatesValid(time.Now()) {
		errs := form.Validate(time.Now())
		for field, msg := range errs {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		return fmt.Errorf("book: invalid dates")
	}

	if !waitFor(ctx, firstPollWait, func() bool { return len(session.Rooms()) > 0 }) {
		return fmt.Errorf("book: no rooms available for %s → %s", *checkIn, *checkOut)
	}

	rooms := session.Rooms()
	selected := *roomID
	if selected == "" {
		selected = rooms[0].ID
	}
	session.SelectRoom(selected)
	fmt.Printf("selected room %s (%d candidate(s)), total %.2f %s + %.2f fee\n",
		selected, len(rooms), session.Quote(), cfg.Booking.Currency, cfg.Booking.Fee)

	paystack := payment.NewPaystack(cfg.Paystack.PublicKey, cfg.Paystack.BaseURL, printCheckoutURL)

	if balance, ok := session.Balance(); ok && balance < cfg.Booking.Fee && *topUp > 0 {
		fmt.Printf("balance %.2f is below the fee, topping up %.2f\n", balance, *topUp)
		newBalance, err := session.TopUp(ctx, *topUp, paystack)
		if err != nil {
			return fmt.Errorf("top-up failed: %w", err)
		}
		fmt.Printf("balance is now %.2f\n", newBalance)
	}

	var strategy payment.Strategy = payment.PreFunded{}
	if *usePaystack {
		strategy = paystack
	}

	created, err := session.Confirm(ctx, strategy)
	if err != nil {
		var invalid *booking.ValidationError
		if errors.As(err, &invalid) {
			for field, msg := range invalid.Fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		return err
	}

	fmt.Printf("booking %s confirmed: %s → %s, status %s, reference %s\n",
		created.ID, created.CheckInDate, created.CheckOutDate, created.Status, created.PaymentReference)
	return nil
}
