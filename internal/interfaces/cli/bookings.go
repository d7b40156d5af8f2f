package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	var req booking.Request
	c := &cobra.Command{
		Use:   "book",
		Short: "Book a table (best-fit table unless --table is given)",
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
			b, err := a.engine.Submit.Execute(cmd.Context(), &sess, req)
			if err != nil {
				return err
			}
			if err := a.sessions.Remember(cmd.Context(), sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booked id=%s table=%q date=%s time=%s guests=%d\n",
				b.ID, b.TableName, b.Date, b.Time, b.Guests)
			return nil
		},
	}
	c.Flags().StringVar(&req.Name, "name", "", "guest name")
	c.Flags().StringVar(&req.Email, "email", "", "contact email")
	c.Flags().StringVar(&req.Phone, "phone", "", "contact phone")
	c.Flags().StringVar(&req.Date, "date", "", "date YYYY-MM-DD")
	c.Flags().StringVar(&req.Time, "time", "", "time HH:MM")
	c.Flags().IntVar(&req.Guests, "guests", 2, "party size")
	c.Flags().IntVar(&req.TableID, "table", 0, "table id (0 = any available table)")
	c.Flags().StringVar(&req.SpecialRequests, "special", "", "special requests")
	for _, f := range []string{"name", "email", "phone", "date", "time"} {
		_ = c.MarkFlagRequired(f)
	}
	return c
}

func newBookingsCmd() *cobra.Command {
	var email string
	c := &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings, earliest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if email == "" {
				sess, err := a.sessions.Current(cmd.Context())
				if err != nil {
					return err
				}
				email = sess.Email
			}
			bs, err := a.engine.MyBookings.Execute(cmd.Context(), email)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(bs) == 0 {
				fmt.Fprintln(out, "no bookings")
				return nil
			}
			for _, b := range bs {
				fmt.Fprintf(out, "%s  %s  %s at %s  %d guest(s)", b.ID, b.TableName, booking.FormatDate(b.Date), booking.FormatTime(b.Time), b.Guests)
				if b.SpecialRequests != "" {
					fmt.Fprintf(out, "  %q", b.SpecialRequests)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	c.Flags().StringVar(&email, "email", "", "email to list (default: last booking email)")
	return c
}

func newCancelCmd() *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to cancel booking %s? [y/N] ", id)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.engine.Cancel.Execute(cmd.Context(), id)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "cancelled %s\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "no booking %s\n", id)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return c
}
