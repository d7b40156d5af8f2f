package storage

import (
	"context"

	"github.com/example/table-booker/internal/domain/booking"
)

// BookingRepo stores every booking as one list under KeyBookings. Each write
// reads the whole list, changes it, and saves it back; callers sharing a
// backend across processes can race.
type BookingRepo struct{ store *Adapter }

func NewBookingRepo(a *Adapter) *BookingRepo { return &BookingRepo{store: a} }

func (r *BookingRepo) All(ctx context.Context) ([]booking.Booking, error) {
	var bs []booking.Booking
	if err := r.store.LoadList(ctx, KeyBookings, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *BookingRepo) Add(ctx context.Context, b booking.Booking) error {
	bs, err := r.All(ctx)
	if err != nil {
		return err
	}
	return r.store.SaveList(ctx, KeyBookings, append(bs, b))
}

func (r *BookingRepo) Remove(ctx context.Context, id string) (int, error) {
	bs, err := r.All(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]booking.Booking, 0, len(bs))
	for _, b := range bs {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	removed := len(bs) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.store.SaveList(ctx, KeyBookings, kept)
}

func (r *BookingRepo) FindByDateTime(ctx context.Context, date, time string) ([]booking.Booking, error) {
	return r.filter(ctx, func(b booking.Booking) bool { return b.Date == date && b.Time == time })
}

func (r *BookingRepo) FindByDate(ctx context.Context, date string) ([]booking.Booking, error) {
	return r.filter(ctx, func(b booking.Booking) bool { return b.Date == date })
}

// FindByEmail returns the bookings made with email, earliest slot first.
func (r *BookingRepo) FindByEmail(ctx context.Context, email string) ([]booking.Booking, error) {
	bs, err := r.filter(ctx, func(b booking.Booking) bool { return b.Email == email })
	if err != nil {
		return nil, err
	}
	booking.SortBySlot(bs)
	return bs, nil
}

func (r *BookingRepo) filter(ctx context.Context, keep func(booking.Booking) bool) ([]booking.Booking, error) {
	bs, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := []booking.Booking{}
	for _, b := range bs {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}
