package usecases

import (
	"context"
	"strings"
	"sync"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/sirupsen/logrus"
)

// CancelBooking removes a booking by id. Unknown ids are a no-op. Callers
// confirm intent before calling.
type CancelBooking struct {
	Bookings booking.Repository
	Guard    *sync.Mutex
	Log      *logrus.Entry
}

// Execute reports whether a booking was removed.
func (u CancelBooking) Execute(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}
	u.Guard.Lock()
	defer u.Guard.Unlock()

	n, err := u.Bookings.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		u.Log.WithField("booking", id).Info("booking cancelled")
	}
	return n > 0, nil
}

type ListMyBookings struct {
	Bookings booking.Repository
}

// Execute returns the bookings made with email, earliest slot first.
func (u ListMyBookings) Execute(ctx context.Context, email string) ([]booking.Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []booking.Booking{}, nil
	}
	return u.Bookings.FindByEmail(ctx, email)
}
