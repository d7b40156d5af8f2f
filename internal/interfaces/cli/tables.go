package cli

import (
	"fmt"
	"strings"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/domain/user"
	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the restaurant's tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ts, err := a.engine.Tables.Execute(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range ts {
				fmt.Fprintf(out, "id=%d name=%q capacity=%d\n", t.ID, t.Name, t.Capacity)
			}
			return nil
		},
	}
}

func newAvailabilityCmd() *cobra.Command {
	var date, tm, email string
	c := &cobra.Command{
		Use:   "availability",
		Short: "Show every table's status for a date and optional time",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.sessions.Current(cmd.Context())
			if err != nil {
				return err
			}
			if email != "" {
				sess = user.Session{Email: email}
			}
			if date == "" {
				date = a.today()
			}
			sts, err := a.engine.Availability.Statuses(cmd.Context(), sess, date, tm)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range sts {
				fmt.Fprintf(out, "%-9s capacity=%d %s\n", s.Table.Name, s.Table.Capacity, describeStatus(s))
			}
			return nil
		},
	}
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	c.Flags().StringVar(&tm, "time", "", "time HH:MM (optional)")
	c.Flags().StringVar(&email, "email", "", "view as this email (default: last booking email)")
	return c
}

func describeStatus(s booking.TableStatus) string {
	switch s.Status {
	case booking.StatusAvailable:
		return "Available"
	case booking.StatusBooked:
		return fmt.Sprintf("Booked (%d guest(s))", s.Guests)
	case booking.StatusOwn:
		return fmt.Sprintf("Your Booking (%d guest(s))", s.Guests)
	case booking.StatusOwnOtherTime:
		return "Your Booking at " + booking.FormatTime(s.Time)
	case booking.StatusHasBookings:
		return fmt.Sprintf("%d booking(s), select time for details", s.BookingCount)
	}
	return "Select time to view status"
}

func newCandidatesCmd() *cobra.Command {
	var date, tm string
	var guests int
	c := &cobra.Command{
		Use:   "candidates",
		Short: "List tables a party could still book at a slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ts, err := a.engine.Availability.Candidates(cmd.Context(), date, tm, guests)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ts) == 0 {
				fmt.Fprintln(out, "no tables available")
				return nil
			}
			names := make([]string, 0, len(ts))
			for _, t := range ts {
				names = append(names, fmt.Sprintf("%s (%d seats) id=%d", t.Name, t.Capacity, t.ID))
			}
			fmt.Fprintln(out, strings.Join(names, "\n"))
			return nil
		},
	}
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD")
	c.Flags().StringVar(&tm, "time", "", "time HH:MM")
	c.Flags().IntVar(&guests, "guests", 2, "party size")
	_ = c.MarkFlagRequired("date")
	_ = c.MarkFlagRequired("time")
	return c
}
