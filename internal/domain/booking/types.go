package booking

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Table struct {
	ID       int    `json:"id"`
	Capacity int    `json:"capacity"`
	Name     string `json:"name"`
}

// DefaultTables is the fixed floor plan seeded on first use.
func DefaultTables() []Table {
	caps := []int{2, 2, 4, 4, 4, 4, 6, 6, 6, 8, 8, 8}
	out := make([]Table, 0, len(caps))
	for i, c := range caps {
		out = append(out, Table{ID: i + 1, Capacity: c, Name: fmt.Sprintf("Table %d", i+1)})
	}
	return out
}

type Booking struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Guests          int       `json:"guests"`
	TableID         int       `json:"tableId"`
	TableName       string    `json:"tableName"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Slot is a (date, time) pair a table can be reserved at.
type Slot struct {
	Date string
	Time string
}

func (b Booking) Slot() Slot { return Slot{Date: b.Date, Time: b.Time} }

// Key orders slots chronologically; both parts are zero-padded so lexical order is time order.
func (s Slot) Key() string { return s.Date + "T" + s.Time }

// Start resolves the slot to an instant in loc.
func (s Slot) Start(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
}

// Request is what a caller submits to book a table. TableID 0 means any table.
type Request struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,contact_email"`
	Phone           string `json:"phone" validate:"required,contact_phone"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	Guests          int    `json:"guests" validate:"required,gte=1"`
	TableID         int    `json:"tableId,omitempty" validate:"gte=0"`
	SpecialRequests string `json:"specialRequests,omitempty" validate:"max=500"`
}

// NormalizeTime rewrites an accepted time of day ("9:05", "09:05") as "09:05".
func NormalizeTime(s string) (string, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}

// CheckDate reports whether s is a calendar date in DateLayout.
func CheckDate(s string) error {
	_, err := time.Parse(DateLayout, s)
	return err
}
