package athletes

// SessionAttendance is one training session held on a day and whether the
// athlete attended it.
type SessionAttendance struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Attended  bool   `json:"attended"`
}

// AttendanceDay lists the sessions held on Date (YYYY-MM-DD).
type AttendanceDay struct {
	Date     string              `json:"date"`
	Sessions []SessionAttendance `json:"sessions"`
}

type AttendanceMonth struct {
	Days []AttendanceDay `json:"days"`
}

// AttendanceUpdate marks an athlete present or absent at one session
// occurrence.
type AttendanceUpdate struct {
	TrainingSessionID int    `json:"training_session_id"`
	Date              string `json:"date"`
	Present           bool   `json:"present"`
}

type DayStatus string

const (
	DayNoSessions DayStatus = ""
	DayMissed     DayStatus = "missed"
	DayPartial    DayStatus = "partial"
	DayPresent    DayStatus = "present"
)

func (d AttendanceDay) AttendedCount() int {
	n := 0
	for _, s := range d.Sessions {
		if s.Attended {
			n++
		}
	}
	return n
}

// Status summarises the day: present at all sessions, some, or none.
func (d AttendanceDay) Status() DayStatus {
	if len(d.Sessions) == 0 {
		return DayNoSessions
	}
	switch d.AttendedCount() {
	case 0:
		return DayMissed
	case len(d.Sessions):
		return DayPresent
	default:
		return DayPartial
	}
}

// ByDate indexes the month's days by date.
func (m AttendanceMonth) ByDate() map[string]AttendanceDay {
	out := make(map[string]AttendanceDay, len(m.Days))
	for _, d := range m.Days {
		out[d.Date] = d
	}
	return out
}
