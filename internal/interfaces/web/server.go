package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/table-booker/internal/application/usecases"
	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/domain/user"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Options struct {
	CORSOrigins []string

	// AllowCredentials lets listed origins send the session cookie. It is
	// ignored when any origin is "*".
	AllowCredentials bool

	BookingRate  float64
	BookingBurst int
	Log          *logrus.Entry
}

type Server struct {
	addr     string
	sessions *SessionManager
	engine   *usecases.Engine
	limiter  *visitorLimiter
	cors     *cors.Cors
	log      *logrus.Entry
}

func New(addr string, sessions *SessionManager, engine *usecases.Engine, opts Options) *Server {
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	limit := rate.Inf
	if opts.BookingRate > 0 {
		limit = rate.Limit(opts.BookingRate)
	}
	burst := opts.BookingBurst
	if burst < 1 {
		burst = 1
	}
	return &Server{
		addr:     addr,
		sessions: sessions,
		engine:   engine,
		limiter:  newVisitorLimiter(limit, burst),
		cors: cors.New(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: opts.AllowCredentials && !anyOrigin(opts.CORSOrigins),
		}),
		log: opts.Log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /api/tables", s.handleTables)
	mux.HandleFunc("GET /api/availability", s.handleAvailability)
	mux.HandleFunc("GET /api/candidates", s.handleCandidates)
	mux.HandleFunc("POST /api/bookings", s.rateLimited(s.handleSubmit))
	mux.HandleFunc("GET /api/bookings/mine", s.handleMine)
	mux.HandleFunc("DELETE /api/bookings/{id}", s.handleCancel)
	return s.logging(s.cors.Handler(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientKey(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Kind: "RATE_LIMITED", Message: "too many booking attempts, try again shortly"})
			return
		}
		next(w, r)
	}
}

// sessionFor prefers an explicit ?email= over the cookie.
func (s *Server) sessionFor(r *http.Request) user.Session {
	if e := strings.TrimSpace(r.URL.Query().Get("email")); e != "" {
		return user.Session{Email: e}
	}
	return s.sessions.Load(r)
}

func (s *Server) today() string {
	c := s.engine.Submit.Clock
	return c.Now().In(c.Location()).Format(booking.DateLayout)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	ts, err := s.engine.Tables.Execute(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

type availabilityResponse struct {
	Date   string                `json:"date"`
	Time   string                `json:"time,omitempty"`
	Tables []booking.TableStatus `json:"tables"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = s.today()
	}
	sts, err := s.engine.Availability.Statuses(r.Context(), s.sessionFor(r), date, q.Get("time"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	tm := strings.TrimSpace(q.Get("time"))
	if tm != "" {
		// Statuses already rejected anything NormalizeTime cannot parse.
		tm, _ = booking.NormalizeTime(tm)
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Date: date, Time: tm, Tables: sts})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	guests, err := strconv.Atoi(q.Get("guests"))
	if err != nil || guests < 1 {
		s.writeErr(w, booking.FieldError("guests", "must be at least 1"))
		return
	}
	ts, err := s.engine.Availability.Candidates(r.Context(), q.Get("date"), q.Get("time"), guests)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		s.writeErr(w, &booking.Error{Kind: booking.KindValidation, Message: "malformed JSON body"})
		return
	}
	sess := s.sessions.Load(r)
	b, err := s.engine.Submit.Execute(r.Context(), &sess, req)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.sessions.Save(w, r, sess); err != nil {
		s.log.WithError(err).Warn("session cookie not set")
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	bs, err := s.engine.MyBookings.Execute(r.Context(), s.sessionFor(r).Email)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	removed, err := s.engine.Cancel.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody{Kind: "NOT_FOUND", Message: "no booking with that id"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// anyOrigin reports whether origins allows every origin. An empty list does,
// matching rs/cors.
func anyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

type errorBody struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var be *booking.Error
	if errors.As(err, &be) {
		writeJSON(w, statusFor(be.Kind), errorBody{Kind: string(be.Kind), Field: be.Field, Message: be.Message})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Kind: "UNAVAILABLE", Message: "request cancelled"})
		return
	}
	s.log.WithError(err).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Kind: "INTERNAL", Message: "internal error"})
}

func statusFor(k booking.ErrorKind) int {
	switch k {
	case booking.KindTableUnavailable, booking.KindNoTableAvailable:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
