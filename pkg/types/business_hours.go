package types

import "strings"

// DayHours describes opening hours for a single weekday.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// BusinessHours maps a lowercase weekday name to its hours.
// Stored as jsonb on the restaurants table.
type BusinessHours map[string]DayHours

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Normalize lowercases the weekday keys and drops unknown ones.
func (b BusinessHours) Normalize() BusinessHours {
	if b == nil {
		return nil
	}
	out := make(BusinessHours, len(b))
	for key, hours := range b {
		day := strings.ToLower(strings.TrimSpace(key))
		if !isWeekday(day) {
			continue
		}
		out[day] = hours
	}
	return out
}

func isWeekday(day string) bool {
	for _, candidate := range weekdays {
		if candidate == day {
			return true
		}
	}
	return false
}
