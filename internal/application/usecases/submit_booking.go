package usecases

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/domain/user"
	"github.com/sirupsen/logrus"
)

// SubmitBooking validates a request, resolves a table and stores the booking.
type SubmitBooking struct {
	Tables    booking.TableRepository
	Bookings  booking.Repository
	Validator *booking.Validator
	Clock     Clock
	// Guard serializes booking writes within the process.
	Guard *sync.Mutex
	// Delay simulates network latency before the booking is resolved.
	Delay time.Duration
	Log   *logrus.Entry
}

// Execute returns the stored booking, a *booking.Error for anything the caller
// got wrong, or a storage error. On success sess is switched to the booking's
// email; persisting the session is up to the caller.
func (u SubmitBooking) Execute(ctx context.Context, sess *user.Session, req booking.Request) (booking.Booking, error) {
	req = req.Normalize()
	if err := u.Validator.Validate(req); err != nil {
		return booking.Booking{}, err
	}
	tm, err := booking.NormalizeTime(req.Time)
	if err != nil {
		return booking.Booking{}, booking.FieldError("time", "must use the format 15:04")
	}
	req.Time = tm
	slot := booking.Slot{Date: req.Date, Time: req.Time}

	if err := u.checkNotPast(slot); err != nil {
		return booking.Booking{}, err
	}

	if u.Delay > 0 {
		t := time.NewTimer(u.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return booking.Booking{}, ctx.Err()
		case <-t.C:
		}
	}

	u.Guard.Lock()
	defer u.Guard.Unlock()

	tables, err := u.Tables.List(ctx)
	if err != nil {
		return booking.Booking{}, err
	}
	all, err := u.Bookings.All(ctx)
	if err != nil {
		return booking.Booking{}, err
	}
	table, err := resolveTable(tables, all, slot, req)
	if err != nil {
		return booking.Booking{}, err
	}

	now := u.Clock.Now()
	b := booking.Booking{
		ID:              newBookingID(now, all),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Date:            slot.Date,
		Time:            slot.Time,
		Guests:          req.Guests,
		TableID:         table.ID,
		TableName:       table.Name,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now.UTC(),
	}
	if err := u.Bookings.Add(ctx, b); err != nil {
		return booking.Booking{}, fmt.Errorf("save booking: %w", err)
	}
	if sess != nil {
		sess.Email = b.Email
	}
	u.Log.WithFields(logrus.Fields{
		"booking": b.ID,
		"table":   b.TableID,
		"slot":    slot.Key(),
		"guests":  b.Guests,
	}).Info("booking created")
	return b, nil
}

func (u SubmitBooking) checkNotPast(slot booking.Slot) error {
	loc := u.Clock.Location()
	now := u.Clock.Now().In(loc)
	day, err := time.ParseInLocation(booking.DateLayout, slot.Date, loc)
	if err != nil {
		return booking.FieldError("date", "must use the format 2006-01-02")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return booking.ErrPastDate
	}
	start, err := slot.Start(loc)
	if err != nil {
		return booking.FieldError("time", "must use the format 15:04")
	}
	if start.Before(now) {
		return booking.ErrPastTime
	}
	return nil
}

func resolveTable(tables []booking.Table, all []booking.Booking, slot booking.Slot, req booking.Request) (booking.Table, error) {
	free := booking.FreeAt(slot, all)
	if req.TableID == 0 {
		t, ok := booking.ChooseTableBestFit(tables, req.Guests, free)
		if !ok {
			return booking.Table{}, booking.ErrNoTableAvailable
		}
		return t, nil
	}
	t, ok := booking.FindTable(tables, req.TableID)
	if !ok {
		return booking.Table{}, booking.FieldError("tableId", fmt.Sprintf("no table with id %d", req.TableID))
	}
	if t.Capacity < req.Guests {
		return booking.Table{}, booking.FieldError("tableId", fmt.Sprintf("%s seats only %d guests", t.Name, t.Capacity))
	}
	if !free(t) {
		return booking.Table{}, booking.ErrTableUnavailable
	}
	return t, nil
}

// newBookingID is "BK" plus the creation time in milliseconds, bumped past any
// id already in use.
func newBookingID(now time.Time, existing []booking.Booking) string {
	used := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		used[b.ID] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := "BK" + strconv.FormatInt(ms, 10)
		if _, ok := used[id]; !ok {
			return id
		}
		ms++
	}
}
