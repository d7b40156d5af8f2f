package booking

type Status string

const (
	StatusAvailable    Status = "available"
	StatusBooked       Status = "booked"
	StatusOwn          Status = "own"
	StatusOwnOtherTime Status = "own_other_time"
	StatusHasBookings  Status = "has_bookings"
	StatusUnknown      Status = "unknown"
)

// Query selects the day (and optionally the time) to classify tables for.
// Email is the current user; empty matches nobody.
type Query struct {
	Date  string
	Time  string
	Email string
}

type TableStatus struct {
	Table  Table  `json:"table"`
	Status Status `json:"status"`
	// Time is the user's booking time for own/own_other_time.
	Time string `json:"time,omitempty"`
	// Guests is set for own and booked.
	Guests int `json:"guests,omitempty"`
	// BookingCount is the number of bookings on the date, reported without a time.
	BookingCount int `json:"bookingCount,omitempty"`
}

// Classify reports one status per table, in table order. Bookings on other
// dates are ignored. Capacity does not influence the result.
func Classify(tables []Table, bookings []Booking, q Query) []TableStatus {
	var onDate []Booking
	for _, b := range bookings {
		if b.Date == q.Date {
			onDate = append(onDate, b)
		}
	}

	out := make([]TableStatus, 0, len(tables))
	for _, t := range tables {
		var mine, exact *Booking
		var mineExact bool
		count := 0
		for i := range onDate {
			b := &onDate[i]
			if b.TableID != t.ID {
				continue
			}
			count++
			own := q.Email != "" && b.Email == q.Email
			if q.Time != "" && b.Time == q.Time {
				if exact == nil {
					exact = b
				}
				if own {
					mineExact = true
					exact = b
				}
			}
			if own && mine == nil {
				mine = b
			}
		}

		ts := TableStatus{Table: t}
		switch {
		case q.Time == "":
			switch {
			case mine != nil:
				ts.Status, ts.Time = StatusOwnOtherTime, mine.Time
			case count > 0:
				ts.Status, ts.BookingCount = StatusHasBookings, count
			default:
				ts.Status = StatusUnknown
			}
		case mineExact:
			ts.Status, ts.Time, ts.Guests = StatusOwn, exact.Time, exact.Guests
		case mine != nil:
			ts.Status, ts.Time = StatusOwnOtherTime, mine.Time
		case exact != nil:
			ts.Status, ts.Guests = StatusBooked, exact.Guests
		default:
			ts.Status = StatusAvailable
		}
		out = append(out, ts)
	}
	return out
}

// StatusByTable flattens statuses into a table id lookup.
func StatusByTable(ts []TableStatus) map[int]Status {
	m := make(map[int]Status, len(ts))
	for _, s := range ts {
		m[s.Table.ID] = s.Status
	}
	return m
}
