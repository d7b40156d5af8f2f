package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/domain/user"
	"github.com/example/table-booker/internal/infrastructure/logging"
	"github.com/example/table-booker/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) Location() *time.Location { return time.UTC }

var testNow = time.Date(2025, 5, 31, 18, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, tables []booking.Table) (*Engine, *storage.BookingRepo) {
	t.Helper()
	a := storage.NewAdapter(storage.NewMemory(), "", logging.Component(logging.Discard(), "storage"))
	tr := storage.NewTableRepo(a)
	_, err := tr.Seed(context.Background(), tables)
	require.NoError(t, err)
	br := storage.NewBookingRepo(a)
	return NewEngine(tr, br, Options{Clock: fixedClock{now: testNow}, Log: logging.Discard()}), br
}

func request(date, tm string, guests int) booking.Request {
	return booking.Request{
		Name:   "Asha Rao",
		Email:  "asha@example.com",
		Phone:  "555-123-4567",
		Date:   date,
		Time:   tm,
		Guests: guests,
	}
}

func TestSubmit_BestFitScenario(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, []booking.Table{
		{ID: 1, Capacity: 2, Name: "Table 1"},
		{ID: 2, Capacity: 4, Name: "Table 2"},
		{ID: 3, Capacity: 4, Name: "Table 3"},
	})

	var sess user.Session
	b, err := e.Submit.Execute(ctx, &sess, request("2025-06-01", "19:00", 3))
	require.NoError(t, err)
	assert.Equal(t, 2, b.TableID)
	assert.Equal(t, "Table 2", b.TableName)

	b, err = e.Submit.Execute(ctx, &sess, request("2025-06-01", "19:00", 4))
	require.NoError(t, err)
	assert.Equal(t, 3, b.TableID)

	_, err = e.Submit.Execute(ctx, &sess, request("2025-06-01", "19:00", 4))
	assert.ErrorIs(t, err, booking.ErrNoTableAvailable)

	// a couple still fits at table 1
	b, err = e.Submit.Execute(ctx, &sess, request("2025-06-01", "19:00", 2))
	require.NoError(t, err)
	assert.Equal(t, 1, b.TableID)
}

func TestSubmit_PrefersCapacitySixOverEight(t *testing.T) {
	e, _ := newTestEngine(t, booking.DefaultTables())
	b, err := e.Submit.Execute(context.Background(), nil, request("2025-06-01", "19:00", 6))
	require.NoError(t, err)
	assert.Equal(t, 6, b.Guests)
	assert.Equal(t, 7, b.TableID)
}

func TestSubmit_PastDateAndTime(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, booking.DefaultTables())

	_, err := e.Submit.Execute(ctx, nil, request("2025-05-30", "23:00", 2))
	assert.ErrorIs(t, err, booking.ErrPastDate)

	_, err = e.Submit.Execute(ctx, nil, request("2024-12-31", "20:00", 2))
	assert.ErrorIs(t, err, booking.ErrPastDate)

	_, err = e.Submit.Execute(ctx, nil, request("2025-05-31", "17:59", 2))
	assert.ErrorIs(t, err, booking.ErrPastTime)

	// exactly now is not strictly in the past
	_, err = e.Submit.Execute(ctx, nil, request("2025-05-31", "18:00", 2))
	assert.NoError(t, err)
}

func TestSubmit_ExplicitTable(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, booking.DefaultTables())

	req := request("2025-06-01", "19:00", 2)
	req.TableID = 10
	b, err := e.Submit.Execute(ctx, nil, req)
	require.NoError(t, err)
	assert.Equal(t, 10, b.TableID)
	assert.Equal(t, "Table 10", b.TableName)

	_, err = e.Submit.Execute(ctx, nil, req)
	assert.ErrorIs(t, err, booking.ErrTableUnavailable)

	req.TableID = 1
	req.Guests = 4
	_, err = e.Submit.Execute(ctx, nil, req)
	var be *booking.Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, booking.KindValidation, be.Kind)
	assert.Equal(t, "tableId", be.Field)

	req.TableID = 42
	_, err = e.Submit.Execute(ctx, nil, req)
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "tableId", be.Field)
}

func TestSubmit_ValidationError(t *testing.T) {
	e, br := newTestEngine(t, booking.DefaultTables())
	req := request("2025-06-01", "19:00", 2)
	req.Email = "not-an-email"

	sess := user.Session{Email: "before@example.com"}
	_, err := e.Submit.Execute(context.Background(), &sess, req)
	assert.ErrorIs(t, err, booking.ErrValidation)
	assert.Equal(t, "before@example.com", sess.Email)

	all, err := br.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmit_RecordFields(t *testing.T) {
	e, _ := newTestEngine(t, booking.DefaultTables())
	req := request(" 2025-06-01 ", "9:30", 2)
	req.SpecialRequests = "  window seat "

	var sess user.Session
	b, err := e.Submit.Execute(context.Background(), &sess, req)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("BK%d", testNow.UnixMilli()), b.ID)
	assert.Equal(t, "2025-06-01", b.Date)
	assert.Equal(t, "09:30", b.Time)
	assert.Equal(t, "window seat", b.SpecialRequests)
	assert.Equal(t, testNow, b.CreatedAt)
	assert.Equal(t, "asha@example.com", sess.Email)
}

func TestSubmit_UniqueIDsWithinOneMillisecond(t *testing.T) {
	e, _ := newTestEngine(t, booking.DefaultTables())
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		b, err := e.Submit.Execute(context.Background(), nil, request("2025-06-01", "19:00", 2))
		require.NoError(t, err)
		assert.False(t, seen[b.ID], b.ID)
		seen[b.ID] = true
	}
}

func TestSubmit_NoDoubleBookingUnderConcurrency(t *testing.T) {
	e, br := newTestEngine(t, booking.DefaultTables())
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Submit.Execute(context.Background(), nil, request("2025-06-01", "19:00", 2))
		}()
	}
	wg.Wait()

	all, err := br.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 12)
	held := map[int]bool{}
	for _, b := range all {
		assert.False(t, held[b.TableID], "table %d booked twice", b.TableID)
		held[b.TableID] = true
	}
}

func TestSubmit_DelayHonorsContext(t *testing.T) {
	e, br := newTestEngine(t, booking.DefaultTables())
	e.Submit.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Submit.Execute(ctx, nil, request("2025-06-01", "19:00", 2))
	assert.ErrorIs(t, err, context.Canceled)

	all, err := br.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCancelAndMyBookings(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, booking.DefaultTables())

	late, err := e.Submit.Execute(ctx, nil, request("2025-06-03", "20:00", 2))
	require.NoError(t, err)
	early, err := e.Submit.Execute(ctx, nil, request("2025-06-01", "12:00", 2))
	require.NoError(t, err)
	other := request("2025-06-01", "11:00", 2)
	other.Email = "other@example.com"
	_, err = e.Submit.Execute(ctx, nil, other)
	require.NoError(t, err)

	mine, err := e.MyBookings.Execute(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, early.ID, mine[0].ID)
	assert.Equal(t, late.ID, mine[1].ID)

	removed, err := e.Cancel.Execute(ctx, early.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = e.Cancel.Execute(ctx, early.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	mine, err = e.MyBookings.Execute(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, late.ID, mine[0].ID)

	none, err := e.MyBookings.Execute(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAvailability(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, booking.DefaultTables())

	sts, err := e.Availability.Statuses(ctx, user.Session{}, "2025-06-01", "19:00")
	require.NoError(t, err)
	for id, st := range booking.StatusByTable(sts) {
		assert.Equal(t, booking.StatusAvailable, st, "table %d", id)
	}

	var sess user.Session
	b, err := e.Submit.Execute(ctx, &sess, request("2025-06-01", "19:00", 2))
	require.NoError(t, err)

	sts, err = e.Availability.Statuses(ctx, sess, "2025-06-01", "19:00")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusOwn, booking.StatusByTable(sts)[b.TableID])

	sts, err = e.Availability.Statuses(ctx, user.Session{Email: "x@example.com"}, "2025-06-01", "19:00")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, booking.StatusByTable(sts)[b.TableID])

	sts, err = e.Availability.Statuses(ctx, sess, "2025-06-01", "")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusOwnOtherTime, booking.StatusByTable(sts)[b.TableID])
	assert.Equal(t, booking.StatusUnknown, booking.StatusByTable(sts)[12])

	ok, err := e.Availability.IsTableAvailable(ctx, b.TableID, "2025-06-01", "19:00")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = e.Availability.IsTableAvailable(ctx, b.TableID, "2025-06-01", "19:30")
	require.NoError(t, err)
	assert.True(t, ok)

	cands, err := e.Availability.Candidates(ctx, "2025-06-01", "19:00", 2)
	require.NoError(t, err)
	assert.Len(t, cands, 11)
	for _, c := range cands {
		assert.NotEqual(t, b.TableID, c.ID)
	}

	_, err = e.Availability.Statuses(ctx, sess, "June 1", "")
	assert.ErrorIs(t, err, booking.ErrValidation)
}
