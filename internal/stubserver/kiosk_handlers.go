package stubserver

import (
	"net/http"

	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
)

const (
	msgNoActiveSession = "There is no active training session right now. Check-in is only allowed 30 minutes before and after a session."
	msgAlreadyLinked   = "The athlete is already associated with this phone number."
	msgUnknownPIN      = "No athlete has this PIN."
	msgNotLinked       = "The athlete is not associated with this phone number."
	msgAlreadyChecked  = "The athlete has already checked in to this session."
)

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	PIN         string `json:"pin"`
	AthleteID   int    `json:"athlete_id"`
}

func (s *Server) currentSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ts := s.currentSession(s.now())
		var out trainingsessions.TrainingSession
		if ts != nil {
			out = *ts
		}
		s.mu.Unlock()

		if ts == nil {
			writeDetail(w, http.StatusNotFound, msgNoActiveSession)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// readPhone decodes a phone-numbers request and validates its phone.
func readPhone(w http.ResponseWriter, r *http.Request) (phoneRequest, bool) {
	var req phoneRequest
	if !readJSON(w, r, &req) {
		return req, false
	}
	if err := athletes.ValidatePhone(req.PhoneNumber); err != nil {
		writeFieldErrors(w, map[string]string{"phone_number": err.Error()})
		return req, false
	}
	return req, true
}

func (s *Server) phoneAthletesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readPhone(w, r)
		if !ok {
			return
		}

		s.mu.Lock()
		list := []athletes.Association{}
		for _, a := range s.phoneAthletes(req.PhoneNumber) {
			list = append(list, s.association(a, req.PhoneNumber))
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{"athletes": list})
	}
}

func (s *Server) createPhoneAthleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readPhone(w, r)
		if !ok {
			return
		}
		name, err := athletes.ValidateFullName(req.Name)
		if err != nil {
			writeFieldErrors(w, map[string]string{"name": err.Error()})
			return
		}

		s.mu.Lock()
		a := s.createAthlete(name)
		s.link(req.PhoneNumber, a.ID)
		out := s.association(a, req.PhoneNumber)
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, out)
	}
}

func (s *Server) addPhoneAthleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readPhone(w, r)
		if !ok {
			return
		}
		if err := athletes.ValidatePIN(req.PIN); err != nil {
			writeFieldErrors(w, map[string]string{"pin": err.Error()})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		a := s.athleteByPIN(req.PIN)
		if a == nil {
			writeError(w, http.StatusNotFound, msgUnknownPIN)
			return
		}
		if !s.link(req.PhoneNumber, a.ID) {
			writeError(w, http.StatusBadRequest, msgAlreadyLinked)
			return
		}
		writeJSON(w, http.StatusOK, s.association(a, req.PhoneNumber))
	}
}

func (s *Server) removePhoneAthleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readPhone(w, r)
		if !ok {
			return
		}

		s.mu.Lock()
		removed := s.unlink(req.PhoneNumber, req.AthleteID)
		s.mu.Unlock()

		if !removed {
			writeError(w, http.StatusNotFound, msgNotLinked)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

func (s *Server) createCheckInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkins.Request
		if !readJSON(w, r, &req) {
			return
		}
		if err := athletes.ValidatePhone(req.PhoneNumber); err != nil {
			writeFieldErrors(w, map[string]string{"phone_number": err.Error()})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.now()
		ts := s.currentSession(now)
		if ts == nil {
			writeError(w, http.StatusBadRequest, msgNoActiveSession)
			return
		}

		var a *athletes.Athlete
		switch {
		case req.AthleteID != nil:
			a = s.athletes[*req.AthleteID]
			if a == nil || !s.linked(req.PhoneNumber, a.ID) {
				writeError(w, http.StatusBadRequest, msgNotLinked)
				return
			}
		case req.AthleteName != "":
			name, err := athletes.ValidateFullName(req.AthleteName)
			if err != nil {
				writeFieldErrors(w, map[string]string{"athlete_name": err.Error()})
				return
			}
			a = s.createAthlete(name)
			s.link(req.PhoneNumber, a.ID)
		default:
			list := s.phoneAthletes(req.PhoneNumber)
			if len(list) != 1 {
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"non_field_errors": {"Choose the athlete to check in."},
				})
				return
			}
			a = list[0]
		}

		if f, ok := s.failures[a.ID]; ok {
			writeError(w, f.status, f.message)
			return
		}

		date := now.Format(trainingsessions.DateLayout)
		if s.checkedIn(a.ID, ts.ID, date) {
			writeError(w, http.StatusBadRequest, msgAlreadyChecked)
			return
		}
		writeJSON(w, http.StatusCreated, s.addCheckIn(a, ts, date))
	}
}
