// hostelctl drives the hostel-management API from the terminal: browsing
// hostels, orchestrated bookings, deposits, reviews, and profile management.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hostelbook-client/internal/api"
	"hostelbook-client/internal/auth"
	"hostelbook-client/internal/booking"
	"hostelbook-client/internal/config"
	"hostelbook-client/internal/domain"
	"hostelbook-client/internal/logger"
	"hostelbook-client/internal/payment"
)

const usage = `Usage: hostelctl [-config path] <command> [flags]

Commands:
  hostels           list hostels
  hostel            show one hostel with room types
  book              run the orchestrated booking flow
  balance           show the deposit balance
  deposit           top up the deposit balance via Paystack
  bookings          list my bookings
  reviews           list reviews for a hostel
  respond           respond to a review
  profile           show my profile
  update-profile    update profile fields
  change-password   change my password
  forgot-password   request a password reset email
  reset-password    complete a password reset
`

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	client := api.NewClient(cfg.API.BaseURL,
		auth.File{Path: cfg.API.TokenFile},
		api.WithTimeout(cfg.APITimeout()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "hostels":
		err = runHostels(ctx, client)
	case "hostel":
		err = runHostel(ctx, client, args)
	case "book":
		err = runBook(ctx, client, cfg, args)
	case "balance":
		err = runBalance(ctx, client)
	case "deposit":
		err = runDeposit(ctx, client, cfg, args)
	case "bookings":
		err = runBookings(ctx, client)
	case "reviews":
		err = runReviews(ctx, client, args)
	case "respond":
		err = runRespond(ctx, client, args)
	case "profile":
		err = runProfile(ctx, client)
	case "update-profile":
		err = runUpdateProfile(ctx, client, args)
	case "change-password":
		err = runChangePassword(ctx, client, args)
	case "forgot-password":
		err = runForgotPassword(ctx, client, args)
	case "reset-password":
		err = runResetPassword(ctx, client, args)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "hostelctl: "+format+"\n", args...)
	os.Exit(1)
}

func runHostels(ctx context.Context, client *api.Client) error {
	hostels, err := client.ListHostels(ctx)
	if err != nil {
		return err
	}
	for _, h := range hostels {
		fmt.Printf("%s  %s  %s\n", h.ID, h.Name, h.Location)
	}
	return nil
}

func runHostel(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("hostel", flag.ExitOnError)
	id := fs.String("id", "", "Hostel ID")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("hostel: -id is required")
	}

	hostel, err := client.GetHostel(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n%s\n", hostel.Name, hostel.ID, hostel.Description)
	for _, rt := range hostel.RoomTypes {
		fmt.Printf("  %s  %s  semester %.2f / month %.2f / week %.2f\n",
			rt.ID, rt.Name, rt.PricePerSemester, rt.PricePerMonth, rt.PricePerWeek)
	}
	return nil
}

func runBalance(ctx context.Context, client *api.Client) error {
	balance, err := client.DepositBalance(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("available balance: %.2f %s\n", balance.AvailableBalance, balance.Currency)
	return nil
}

func runDeposit(ctx context.Context, client *api.Client, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Top-up amount in GHS")
	fs.Parse(args)
	if *amount <= 0 {
		return fmt.Errorf("deposit: -amount must be positive")
	}

	profile, err := client.GetProfile(ctx)
	if err != nil {
		return err
	}

	strategy := payment.NewPaystack(cfg.Paystack.PublicKey, cfg.Paystack.BaseURL, printCheckoutURL)
	if err := booking.TopUp(ctx, client, cfg.Booking.Currency, profile.Email, *amount, strategy); err != nil {
		return err
	}

	balance, err := client.DepositBalance(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("deposit verified, balance is now %.2f %s\n",
		balance.AvailableBalance, cfg.Booking.Currency)
	return nil
}

func runBookings(ctx context.Context, client *api.Client) error {
	bookings, err := client.ListBookings(ctx)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		fmt.Printf("%s  %s → %s  %s/%s  %.2f due %.2f\n",
			b.ID, b.CheckInDate, b.CheckOutDate, b.Status, b.PaymentStatus,
			b.TotalAmount, b.AmountDue)
	}
	return nil
}

func runReviews(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("reviews", flag.ExitOnError)
	hostelID := fs.String("hostel", "", "Hostel ID (optional)")
	fs.Parse(args)

	reviews, err := client.ListReviews(ctx, *hostelID)
	if err != nil {
		return err
	}
	for _, r := range reviews {
		fmt.Printf("%s  %d/5  [%s]  %s\n", r.ID, r.Rating, r.Status, r.Comment)
		if r.Response != "" {
			fmt.Printf("    response: %s\n", r.Response)
		}
	}
	return nil
}

func runRespond(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("respond", flag.ExitOnError)
	id := fs.String("id", "", "Review ID")
	message := fs.String("message", "", "Response text")
	fs.Parse(args)
	if *id == "" || *message == "" {
		return fmt.Errorf("respond: -id and -message are required")
	}

	review, err := client.RespondToReview(ctx, *id, *message)
	if err != nil {
		return err
	}
	fmt.Printf("response saved on review %s\n", review.ID)
	return nil
}

func runProfile(ctx context.Context, client *api.Client) error {
	profile, err := client.GetProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s  %s\nrole: %s\n", profile.FullName, profile.Email, profile.Phone, profile.Role)
	return nil
}

func runUpdateProfile(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	fs.Parse(args)

	if *name == "" && *email == "" && *phone == "" {
		return fmt.Errorf("update-profile: nothing to update")
	}

	profile, err := client.UpdateProfile(ctx, &domain.ProfileUpdate{
		FullName: *name,
		Email:    *email,
		Phone:    *phone,
	})
	if err != nil {
		return err
	}
	fmt.Printf("profile updated: %s <%s>\n", profile.FullName, profile.Email)
	return nil
}

func runChangePassword(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("change-password", flag.ExitOnError)
	current := fs.String("current", "", "Current password")
	newPassword := fs.String("new", "", "New password")
	fs.Parse(args)
	if *current == "" || *newPassword == "" {
		return fmt.Errorf("change-password: -current and -new are required")
	}

	if err := client.ChangePassword(ctx, *current, *newPassword); err != nil {
		return err
	}
	fmt.Println("password changed")
	return nil
}

func runForgotPassword(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	fs.Parse(args)
	if *email == "" {
		return fmt.Errorf("forgot-password: -email is required")
	}

	if err := client.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Println("reset email requested")
	return nil
}

func runResetPassword(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	token := fs.String("token", "", "Reset token from the email")
	password := fs.String("password", "", "New password")
	fs.Parse(args)
	if *token == "" || *password == "" {
		return fmt.Errorf("reset-password: -token and -password are required")
	}

	if err := client.ResetPassword(ctx, *token, *password); err != nil {
		return err
	}
	fmt.Println("password reset")
	return nil
}

func printCheckoutURL(url string) error {
	fmt.Printf("complete the payment in your browser:\n  %s\n", url)
	return nil
}

// waitFor polls cond until it returns true or the timeout passes.
func waitFor(ctx context.Context, timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(200 * time.Millisecond):
		}
	}
	return cond()
}
