package stubserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/internal/utils"
	"github.com/jrsteele09/gym-checkin/payments"
	"github.com/jrsteele09/gym-checkin/settings"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
)

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// period reads ?year=&month=, defaulting to the current month.
func (s *Server) period(r *http.Request) (int, int) {
	now := s.now()
	year := utils.AtoiDefault(r.URL.Query().Get("year"), now.Year())
	month := utils.AtoiDefault(r.URL.Query().Get("month"), int(now.Month()))
	return year, month
}

// writeValidation reports a client-side style validation error as a DRF
// field error.
func writeValidation(w http.ResponseWriter, err error) {
	var verr *errors.ValidationError
	if errors.As(err, &verr) {
		writeFieldErrors(w, map[string]string{verr.Field: verr.Message})
		return
	}
	writeDetail(w, http.StatusBadRequest, err.Error())
}

func (s *Server) listSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		list := make([]trainingsessions.TrainingSession, 0, len(s.sessions))
		for _, ts := range s.sortedSessions() {
			list = append(list, *ts)
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, list)
	}
}

// saveSessionHandler creates (POST) or replaces (PUT /{id}/) a session.
func (s *Server) saveSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p trainingsessions.Payload
		if !readJSON(w, r, &p) {
			return
		}
		if p.Frequency == trainingsessions.FrequencyWeekly && p.Weekday == nil {
			writeFieldErrors(w, map[string]string{"weekday": trainingsessions.MsgWeekdayRequired})
			return
		}
		form := trainingsessions.Form{
			Name:      p.Name,
			Frequency: p.Frequency,
			Date:      utils.Value(p.Date),
			Weekday:   utils.Value(p.Weekday),
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
			Active:    p.Active,
		}
		clean, err := form.Payload()
		if err != nil {
			writeValidation(w, err)
			return
		}

		ts := trainingsessions.TrainingSession{
			Name:      clean.Name,
			Frequency: clean.Frequency,
			Date:      clean.Date,
			Weekday:   clean.Weekday,
			StartTime: clean.StartTime + ":00",
			EndTime:   clean.EndTime + ":00",
			Active:    clean.Active,
		}
		if ts.Weekday != nil {
			ts.WeekdayDisplay = ts.Weekday.String()
		}

		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusCreated, s.AddTrainingSession(ts))
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		id := pathID(r)
		if _, ok := s.sessions[id]; !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		ts.ID = id
		s.sessions[id] = &ts
		writeJSON(w, http.StatusOK, ts)
	}
}

func (s *Server) deleteSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := pathID(r)
		if _, ok := s.sessions[id]; !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		delete(s.sessions, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) listCheckInsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.CheckIns())
	}
}

// monthlyStatsHandler lists every athlete with a check-in in the month.
func (s *Server) monthlyStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, month := s.period(r)
		if month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month.")
			return
		}

		s.mu.Lock()
		stats := checkins.MonthlyStats{Year: year, Month: month, Athletes: []checkins.AthleteStats{}}
		for _, a := range s.sortedAthletes() {
			n := s.countCheckIns(a.ID, year, month)
			if n == 0 {
				continue
			}
			stats.Athletes = append(stats.Athletes, checkins.AthleteStats{
				AthleteID:          a.ID,
				AthleteName:        a.Name,
				PhoneNumber:        s.firstPhone(a.ID),
				CheckInCount:       n,
				SubscriptionActive: a.SubscriptionActive,
			})
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) listAthletesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		list := make([]athletes.Athlete, 0, len(s.athletes))
		for _, a := range s.sortedAthletes() {
			out := *a
			out.PhoneNumber = s.firstPhone(a.ID)
			list = append(list, out)
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, list)
	}
}

// athlete looks up the athlete named in the path, answering 404 itself when
// there is none. Callers hold s.mu.
func (s *Server) athlete(w http.ResponseWriter, r *http.Request) *athletes.Athlete {
	a, ok := s.athletes[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return nil
	}
	return a
}

func (s *Server) getAthleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		a := s.athlete(w, r)
		if a == nil {
			return
		}
		out := *a
		out.PhoneNumber = s.firstPhone(a.ID)
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) patchAthleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u athletes.Update
		if !readJSON(w, r, &u) {
			return
		}
		if u.Name != nil {
			name, err := athletes.ValidateName(*u.Name)
			if err != nil {
				writeValidation(w, err)
				return
			}
			u.Name = &name
		}
		if u.PhoneNumber != nil {
			if err := athletes.ValidateOptionalPhone(*u.PhoneNumber); err != nil {
				writeValidation(w, err)
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		a := s.athlete(w, r)
		if a == nil {
			return
		}
		if u.Name != nil {
			a.Name = *u.Name
		}
		if u.SubscriptionActive != nil {
			a.SubscriptionActive = *u.SubscriptionActive
		}
		if phone := utils.Value(u.PhoneNumber); phone != "" {
			s.link(phone, a.ID)
		}
		out := *a
		out.PhoneNumber = s.firstPhone(a.ID)
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) athletePhonesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		a := s.athlete(w, r)
		if a == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"phones": s.athletePhones(a.ID)})
	}
}

// attendanceHandler lists, per day of the month, the sessions held and
// whether the athlete checked in to each.
func (s *Server) attendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, month := s.period(r)
		if month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month.")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		a := s.athlete(w, r)
		if a == nil {
			return
		}

		out := athletes.AttendanceMonth{Days: []athletes.AttendanceDay{}}
		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.now().Location())
		for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
			date := day.Format(trainingsessions.DateLayout)
			var held []athletes.SessionAttendance
			for _, ts := range s.sortedSessions() {
				if !ts.OccursOn(day) {
					continue
				}
				held = append(held, athletes.SessionAttendance{
					ID:        ts.ID,
					Name:      ts.Name,
					StartTime: trainingsessions.ShortTime(ts.StartTime),
					EndTime:   trainingsessions.ShortTime(ts.EndTime),
					Attended:  s.checkedIn(a.ID, ts.ID, date),
				})
			}
			if len(held) > 0 {
				out.Days = append(out.Days, athletes.AttendanceDay{Date: date, Sessions: held})
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) patchAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u athletes.AttendanceUpdate
		if !readJSON(w, r, &u) {
			return
		}
		if _, err := time.Parse(trainingsessions.DateLayout, u.Date); err != nil {
			writeFieldErrors(w, map[string]string{"date": "Date has wrong format. Use YYYY-MM-DD."})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		a := s.athlete(w, r)
		if a == nil {
			return
		}
		ts, ok := s.sessions[u.TrainingSessionID]
		if !ok {
			writeError(w, http.StatusNotFound, "Training session not found.")
			return
		}

		if u.Present {
			if !s.checkedIn(a.ID, ts.ID, u.Date) {
				s.addCheckIn(a, ts, u.Date)
			}
		} else {
			s.removeCheckIn(a.ID, ts.ID, u.Date)
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": u.Date, "training_session_id": ts.ID, "present": u.Present})
	}
}

func (s *Server) getSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		out := s.settings
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) patchSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settings.Update
		if !readJSON(w, r, &req) {
			return
		}
		clean, err := settings.NewUpdate(req.SubscriptionCost, req.SessionCost)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		s.settings.SubscriptionCost = clean.SubscriptionCost
		s.settings.SessionCost = clean.SessionCost
		s.settings.UpdatedAt = s.now()
		out := s.settings
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) listPaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		athlete := utils.AtoiDefault(q.Get("athlete"), 0)
		year := utils.AtoiDefault(q.Get("year"), 0)
		month := utils.AtoiDefault(q.Get("month"), 0)

		s.mu.Lock()
		list := []payments.AthletePayment{}
		for id := 1; id <= s.nextID["payment"]; id++ {
			p, ok := s.payments[id]
			if !ok {
				continue
			}
			if (athlete > 0 && p.Athlete != athlete) || (year > 0 && p.Year != year) || (month > 0 && p.Month != month) {
				continue
			}
			list = append(list, *p)
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) createPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payments.NewPayment
		if !readJSON(w, r, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			writeValidation(w, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.athletes[req.Athlete]; !ok {
			writeFieldErrors(w, map[string]string{"athlete": "Invalid athlete."})
			return
		}
		p := &payments.AthletePayment{
			ID:      s.id("payment"),
			Athlete: req.Athlete,
			Year:    req.Year,
			Month:   req.Month,
			Amount:  req.Amount,
			Paid:    req.Paid,
		}
		if p.Paid {
			p.PaidAt = utils.Ptr(s.now())
		}
		s.payments[p.ID] = p
		writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) patchPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u payments.Update
		if !readJSON(w, r, &u) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		p, ok := s.payments[pathID(r)]
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		if u.Amount != nil {
			if v, err := strconv.ParseFloat(*u.Amount, 64); err != nil || v < 0 {
				writeFieldErrors(w, map[string]string{"amount": payments.MsgInvalidAmount})
				return
			}
			p.Amount = *u.Amount
		}
		if u.Paid != nil {
			p.Paid = *u.Paid
			p.PaidAt = utils.PtrIf(s.now(), p.Paid)
		}
		writeJSON(w, http.StatusOK, p)
	}
}
