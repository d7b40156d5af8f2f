package usecases

import (
	"sync"
	"time"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/infrastructure/logging"
	"github.com/sirupsen/logrus"
)

// Clock tells the workflow what "now" and "today" mean.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type SystemClock struct{ Loc *time.Location }

func (c SystemClock) Now() time.Time { return time.Now() }

func (c SystemClock) Location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

type Options struct {
	Clock       Clock
	SubmitDelay time.Duration
	Log         *logrus.Logger
}

// Engine is the API the presentation layers call.
type Engine struct {
	Tables       ListTables
	Availability Availability
	Submit       SubmitBooking
	Cancel       CancelBooking
	MyBookings   ListMyBookings
}

// NewEngine wires the use cases around one shared write guard.
func NewEngine(tables booking.TableRepository, bookings booking.Repository, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	guard := &sync.Mutex{}
	return &Engine{
		Tables:       ListTables{Tables: tables},
		Availability: Availability{Tables: tables, Bookings: bookings},
		Submit: SubmitBooking{
			Tables:    tables,
			Bookings:  bookings,
			Validator: booking.NewValidator(),
			Clock:     opts.Clock,
			Guard:     guard,
			Delay:     opts.SubmitDelay,
			Log:       logging.Component(opts.Log, "submit"),
		},
		Cancel: CancelBooking{
			Bookings: bookings,
			Guard:    guard,
			Log:      logging.Component(opts.Log, "cancel"),
		},
		MyBookings: ListMyBookings{Bookings: bookings},
	}
}
