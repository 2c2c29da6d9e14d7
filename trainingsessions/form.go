package trainingsessions

import (
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/internal/utils"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	MsgNameRequired       = "The session name is required."
	MsgInvalidFrequency   = "The frequency must be once or weekly."
	MsgDateRequired       = "A one-off session needs a date (YYYY-MM-DD)."
	MsgWeekdayRequired    = "A weekly session needs a weekday."
	MsgInvalidTime        = "Times must use the HH:MM format."
	MsgStartBeforeEnd     = "The start time must be earlier than the end time."
	MsgDeleteNotConfirmed = "Confirm that the training session should be deleted."
)

// Form is the create/edit form for a training session.
type Form struct {
	Name      string
	Frequency Frequency
	Date      string
	Weekday   Weekday
	StartTime string
	EndTime   string
	Active    bool
}

// Payload is the create/update request body. A one-off session sends a date
// and a null weekday; a weekly session the reverse.
type Payload struct {
	Name      string    `json:"name"`
	Frequency Frequency `json:"frequency"`
	Date      *string   `json:"date"`
	Weekday   *Weekday  `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Active    bool      `json:"active"`
}

// NewForm is an empty, active weekly form.
func NewForm() Form {
	return Form{Frequency: FrequencyWeekly, Active: true}
}

// FormFrom fills the form for editing s.
func FormFrom(s TrainingSession) Form {
	f := Form{
		Name:      s.Name,
		Frequency: s.Frequency,
		Date:      utils.Value(s.Date),
		StartTime: ShortTime(s.StartTime),
		EndTime:   ShortTime(s.EndTime),
		Active:    s.Active,
	}
	if s.Weekday != nil {
		f.Weekday = *s.Weekday
	}
	return f
}

// Payload validates the form and builds the request body.
func (f Form) Payload() (Payload, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Payload{}, errors.Invalid("name", MsgNameRequired)
	}

	start, end := NormalizeTime(f.StartTime), NormalizeTime(f.EndTime)
	if !validClock(start) || !validClock(end) {
		return Payload{}, errors.Invalid("start_time", MsgInvalidTime)
	}
	if start >= end {
		return Payload{}, errors.Invalid("start_time", MsgStartBeforeEnd)
	}

	p := Payload{
		Name:      name,
		Frequency: f.Frequency,
		StartTime: start,
		EndTime:   end,
		Active:    f.Active,
	}

	switch f.Frequency {
	case FrequencyOnce:
		if _, err := time.Parse(DateLayout, f.Date); err != nil {
			return Payload{}, errors.Invalid("date", MsgDateRequired)
		}
		p.Date = utils.Ptr(f.Date)
	case FrequencyWeekly:
		if !f.Weekday.Valid() {
			return Payload{}, errors.Invalid("weekday", MsgWeekdayRequired)
		}
		p.Weekday = utils.Ptr(f.Weekday)
	default:
		return Payload{}, errors.Invalid("frequency", MsgInvalidFrequency)
	}
	return p, nil
}

// NormalizeTime cleans free-form time input towards HH:MM: it drops
// characters other than digits and ':', inserts the colon after two digits,
// truncates to five characters and clamps hours to 23 and minutes to 59.
func NormalizeTime(in string) string {
	var b strings.Builder
	for _, r := range in {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	out := b.String()

	if len(out) == 2 && !strings.Contains(out, ":") {
		out += ":"
	} else if !strings.Contains(out, ":") && len(out) > 2 {
		out = out[:2] + ":" + out[2:]
	}
	if len(out) > 5 {
		out = out[:5]
	}

	hours, minutes, ok := strings.Cut(out, ":")
	if !ok || hours == "" || minutes == "" {
		return out
	}
	if h, err := strconv.Atoi(hours); err == nil && h > 23 {
		hours = "23"
	}
	if m, err := strconv.Atoi(minutes); err == nil && m > 59 {
		minutes = "59"
	}
	return hours + ":" + minutes
}

// ShortTime trims a backend "HH:MM:SS" to "HH:MM".
func ShortTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
