package booking

import "context"

type TableRepository interface {
	List(ctx context.Context) ([]Table, error)
}

// Repository is the only writer of bookings.
type Repository interface {
	All(ctx context.Context) ([]Booking, error)
	Add(ctx context.Context, b Booking) error
	Remove(ctx context.Context, id string) (int, error)
	FindByDateTime(ctx context.Context, date, time string) ([]Booking, error)
	FindByDate(ctx context.Context, date string) ([]Booking, error)
	FindByEmail(ctx context.Context, email string) ([]Booking, error)
}
