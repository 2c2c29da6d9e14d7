package trainingsessions

import (
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyOnce   Frequency = "once"
	FrequencyWeekly Frequency = "weekly"
)

// Weekday counts from Monday = 0, as the backend does.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLabels = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayLabels[w]
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// WeekdayOf converts a time.Weekday (Sunday = 0) to the Monday-first index.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// Weekdays lists every weekday in display order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// TrainingSession is a scheduled class: a one-off on Date, or weekly on
// Weekday. Times are "HH:MM" or "HH:MM:SS".
type TrainingSession struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Frequency      Frequency `json:"frequency"`
	Date           *string   `json:"date"`
	Weekday        *Weekday  `json:"weekday"`
	WeekdayDisplay string    `json:"weekday_display,omitempty"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Active         bool      `json:"active"`
}

// TimeRange renders "HH:MM - HH:MM".
func (s TrainingSession) TimeRange() string {
	return ShortTime(s.StartTime) + " - " + ShortTime(s.EndTime)
}

// Schedule is the weekday label for weekly sessions and the date for one-off
// sessions.
func (s TrainingSession) Schedule() string {
	switch s.Frequency {
	case FrequencyWeekly:
		if s.WeekdayDisplay != "" {
			return s.WeekdayDisplay
		}
		if s.Weekday != nil {
			return s.Weekday.String()
		}
	case FrequencyOnce:
		if s.Date != nil {
			return *s.Date
		}
	}
	return ""
}

// OccursOn reports whether the session is held on day's calendar date.
func (s TrainingSession) OccursOn(day time.Time) bool {
	if !s.Active {
		return false
	}
	switch s.Frequency {
	case FrequencyWeekly:
		return s.Weekday != nil && *s.Weekday == WeekdayOf(day.Weekday())
	case FrequencyOnce:
		return s.Date != nil && *s.Date == day.Format(DateLayout)
	}
	return false
}

// Bounds returns the session's start and end on day's date, in day's
// location.
func (s TrainingSession) Bounds(day time.Time) (time.Time, time.Time, error) {
	start, err := clockOn(day, s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(day, s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// IsCurrent reports whether now falls within margin of the session held
// today.
func (s TrainingSession) IsCurrent(now time.Time, margin time.Duration) bool {
	if !s.OccursOn(now) {
		return false
	}
	start, end, err := s.Bounds(now)
	if err != nil {
		return false
	}
	return !now.Before(start.Add(-margin)) && !now.After(end.Add(margin))
}

func clockOn(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, ShortTime(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
