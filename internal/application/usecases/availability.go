package usecases

import (
	"context"
	"strings"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/domain/user"
)

type ListTables struct {
	Tables booking.TableRepository
}

func (u ListTables) Execute(ctx context.Context) ([]booking.Table, error) {
	return u.Tables.List(ctx)
}

// Availability answers read-only questions about who holds which table.
type Availability struct {
	Tables   booking.TableRepository
	Bookings booking.Repository
}

// Statuses classifies every table for date, and for tm when it is not empty,
// from the point of view of sess.
func (a Availability) Statuses(ctx context.Context, sess user.Session, date, tm string) ([]booking.TableStatus, error) {
	q, err := query(date, tm)
	if err != nil {
		return nil, err
	}
	q.Email = strings.TrimSpace(sess.Email)

	tables, err := a.Tables.List(ctx)
	if err != nil {
		return nil, err
	}
	onDate, err := a.Bookings.FindByDate(ctx, q.Date)
	if err != nil {
		return nil, err
	}
	return booking.Classify(tables, onDate, q), nil
}

// IsTableAvailable is the authoritative slot check: true iff nobody holds the
// table at exactly (date, tm).
func (a Availability) IsTableAvailable(ctx context.Context, tableID int, date, tm string) (bool, error) {
	q, err := query(date, tm)
	if err != nil {
		return false, err
	}
	bs, err := a.Bookings.FindByDateTime(ctx, q.Date, q.Time)
	if err != nil {
		return false, err
	}
	for _, b := range bs {
		if b.TableID == tableID {
			return false, nil
		}
	}
	return true, nil
}

// Candidates lists the tables a party of guests could still book at the slot,
// in table order.
func (a Availability) Candidates(ctx context.Context, date, tm string, guests int) ([]booking.Table, error) {
	q, err := query(date, tm)
	if err != nil {
		return nil, err
	}
	if q.Time == "" {
		return nil, booking.FieldError("time", "is required")
	}
	tables, err := a.Tables.List(ctx)
	if err != nil {
		return nil, err
	}
	bs, err := a.Bookings.FindByDateTime(ctx, q.Date, q.Time)
	if err != nil {
		return nil, err
	}
	out := booking.Eligible(tables, guests, booking.FreeAt(booking.Slot{Date: q.Date, Time: q.Time}, bs))
	if out == nil {
		out = []booking.Table{}
	}
	return out, nil
}

func query(date, tm string) (booking.Query, error) {
	date, tm = strings.TrimSpace(date), strings.TrimSpace(tm)
	if err := booking.CheckDate(date); err != nil {
		return booking.Query{}, booking.FieldError("date", "must use the format 2006-01-02")
	}
	if tm != "" {
		n, err := booking.NormalizeTime(tm)
		if err != nil {
			return booking.Query{}, booking.FieldError("time", "must use the format 15:04")
		}
		tm = n
	}
	return booking.Query{Date: date, Time: tm}, nil
}
