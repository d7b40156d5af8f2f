package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/table-booker/internal/application/usecases"
	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/domain/user"
	"github.com/example/table-booker/internal/infrastructure/logging"
	"github.com/example/table-booker/internal/infrastructure/storage"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 5, 31, 18, 0, 0, 0, time.UTC) }
func (stubClock) Location() *time.Location { return time.UTC }

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newServer(t, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newServer(t *testing.T, opts Options) *Server {
	t.Helper()
	a := storage.NewAdapter(storage.NewMemory(), "", nil)
	tables := storage.NewTableRepo(a)
	_, err := tables.Seed(context.Background(), booking.DefaultTables())
	require.NoError(t, err)
	engine := usecases.NewEngine(tables, storage.NewBookingRepo(a), usecases.Options{Clock: stubClock{}, Log: logging.Discard()})

	sessions := NewSessionManager(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	opts.Log = logrus.NewEntry(logging.Discard())
	return New("", sessions, engine, opts)
}

const bookingJSON = `{"name":"Asha Rao","email":"asha@example.com","phone":"555-123-4567","date":"2025-06-01","time":"19:00","guests":%s}`

func postBooking(t *testing.T, c *http.Client, base, guests string) *http.Response {
	t.Helper()
	body := strings.Replace(bookingJSON, "%s", guests, 1)
	resp, err := c.Post(base+"/api/bookings", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_BookAndSeeOwnTable(t *testing.T) {
	srv := newTestServer(t, Options{})
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{Jar: jar}

	resp := postBooking(t, c, srv.URL, "2")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[booking.Booking](t, resp)
	assert.Equal(t, 1, b.TableID)

	resp, err = c.Get(srv.URL + "/api/availability?date=2025-06-01&time=19:00")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	av := decode[availabilityResponse](t, resp)
	assert.Equal(t, booking.StatusOwn, booking.StatusByTable(av.Tables)[1])
	assert.Equal(t, booking.StatusAvailable, booking.StatusByTable(av.Tables)[2])

	resp, err = c.Get(srv.URL + "/api/bookings/mine")
	require.NoError(t, err)
	defer resp.Body.Close()
	mine := decode[[]booking.Booking](t, resp)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	// without the cookie the same table shows as booked
	resp, err = http.Get(srv.URL + "/api/availability?date=2025-06-01&time=19:00")
	require.NoError(t, err)
	defer resp.Body.Close()
	av = decode[availabilityResponse](t, resp)
	assert.Equal(t, booking.StatusBooked, booking.StatusByTable(av.Tables)[1])
}

func TestServer_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := postBooking(t, http.DefaultClient, srv.URL, "0")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Kind)
	assert.Equal(t, "guests", body.Field)

	resp = postBooking(t, http.DefaultClient, srv.URL, "9")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_TABLE_AVAILABLE", decode[errorBody](t, resp).Kind)

	resp, err := http.Post(srv.URL+"/api/bookings", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/candidates?date=2025-06-01&time=19:00&guests=x")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_CandidatesAndCancel(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := postBooking(t, http.DefaultClient, srv.URL, "8")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[booking.Booking](t, resp)
	assert.Equal(t, 10, b.TableID)

	resp, err := http.Get(srv.URL + "/api/candidates?date=2025-06-01&time=19:00&guests=8")
	require.NoError(t, err)
	defer resp.Body.Close()
	cands := decode[[]booking.Table](t, resp)
	assert.Len(t, cands, 2)

	del := func(id string) int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/bookings/"+id, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusNoContent, del(b.ID))
	assert.Equal(t, http.StatusNotFound, del(b.ID))
}

func submitFrom(h http.Handler, addr string) *httptest.ResponseRecorder {
	body := strings.Replace(bookingJSON, "%s", "2", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_RateLimitsBookingsPerClient(t *testing.T) {
	h := newServer(t, Options{BookingRate: 0.001, BookingBurst: 1}).Handler()

	assert.Equal(t, http.StatusCreated, submitFrom(h, "10.0.0.1:5000").Code)
	rec := submitFrom(h, "10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "RATE_LIMITED", body.Kind)

	// another client still gets through
	assert.Equal(t, http.StatusCreated, submitFrom(h, "10.0.0.2:5000").Code)
}

func TestVisitorLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	vl := newVisitorLimiter(rate.Every(time.Hour), 1)
	vl.now = func() time.Time { return now }

	assert.True(t, vl.allow("10.0.0.1"))
	assert.False(t, vl.allow("10.0.0.1"))
	assert.True(t, vl.allow("10.0.0.2"))
	assert.Equal(t, 2, vl.size())

	now = now.Add(visitorIdle)
	assert.True(t, vl.allow("10.0.0.3"))
	assert.Equal(t, 1, vl.size())
	// the evicted client starts with a fresh bucket
	assert.True(t, vl.allow("10.0.0.1"))
}

func corsGet(h http.Handler, origin string) http.Header {
	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header()
}

func TestServer_CORSCredentials(t *testing.T) {
	h := newServer(t, Options{CORSOrigins: []string{"*"}, AllowCredentials: true}).Handler()
	hdr := corsGet(h, "http://front.example")
	assert.NotEmpty(t, hdr.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, hdr.Get("Access-Control-Allow-Credentials"))

	h = newServer(t, Options{}).Handler()
	assert.Empty(t, corsGet(h, "http://front.example").Get("Access-Control-Allow-Credentials"))

	h = newServer(t, Options{CORSOrigins: []string{"http://front.example"}, AllowCredentials: true}).Handler()
	hdr = corsGet(h, "http://front.example")
	assert.Equal(t, "http://front.example", hdr.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", hdr.Get("Access-Control-Allow-Credentials"))

	hdr = corsGet(h, "http://evil.example")
	assert.Empty(t, hdr.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, hdr.Get("Access-Control-Allow-Credentials"))
}

func TestServer_AvailabilityEchoesNormalizedTime(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/api/availability?date=2025-06-01&time=9:00")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	av := decode[availabilityResponse](t, resp)
	assert.Equal(t, "09:00", av.Time)
	assert.Len(t, av.Tables, 12)
}

func TestSessionManager_RejectsTamperedCookie(t *testing.T) {
	sm := NewSessionManager(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, sm.Save(rec, req, user.Session{Email: "me@example.com"}))

	cookie := rec.Result().Cookies()[0]
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	assert.Equal(t, "me@example.com", sm.Load(req).Email)

	cookie.Value = "x" + cookie.Value
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	assert.False(t, sm.Load(req).Known())
}
