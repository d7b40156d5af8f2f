package booking

import "time"

// FormatTime renders "19:30" as "7:30 PM". Unparseable input is returned as is.
func FormatTime(hhmm string) string {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

// FormatDate renders "2025-06-01" as "Sunday, 1 June 2025".
func FormatDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, 2 January 2006")
}
