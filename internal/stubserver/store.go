package stubserver

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/jrsteele09/gym-checkin/users"
)

// AddUser creates a staff account. admin grants user management.
func (s *Server) AddUser(username, password string, admin, superuser bool) (*users.User, error) {
	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrapf(err, "hash password")
	}
	u := &users.User{
		Username:     username,
		PasswordHash: hash,
		DateJoined:   s.now(),
		IsStaff:      true,
		IsAdmin:      admin,
		IsSuperuser:  superuser,
	}
	if err := s.users.Upsert(u); err != nil {
		return nil, err
	}
	return u, nil
}

// AddTrainingSession stores ts and returns it with its id.
func (s *Server) AddTrainingSession(ts trainingsessions.TrainingSession) trainingsessions.TrainingSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts.ID = s.id("session")
	if ts.Frequency == trainingsessions.FrequencyWeekly && ts.Weekday != nil {
		ts.WeekdayDisplay = ts.Weekday.String()
	}
	s.sessions[ts.ID] = &ts
	return ts
}

// AddAthlete creates an athlete linked to phone.
func (s *Server) AddAthlete(name, phone string) athletes.Association {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.createAthlete(name)
	s.link(phone, a.ID)
	return s.association(a, phone)
}

// FailCheckIn makes every check-in of athleteID fail with status and msg.
func (s *Server) FailCheckIn(athleteID, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[athleteID] = failure{status: status, message: msg}
}

// ExpireAccessTokens invalidates every access token issued so far; refresh
// tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenGeneration++
}

// RevokeRefreshTokens makes every refresh attempt fail from now on.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshRevoked = true
}

// Hits counts requests for method and path, e.g. ("POST", "/api/checkins/").
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// CheckIns returns a copy of the stored check-ins.
func (s *Server) CheckIns() []checkins.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]checkins.CheckIn(nil), s.checkIns...)
}

// The helpers below expect s.mu to be held.

func (s *Server) createAthlete(name string) *athletes.Athlete {
	a := &athletes.Athlete{
		ID:                 s.id("athlete"),
		Name:               name,
		PIN:                s.newPIN(),
		SubscriptionActive: false,
	}
	s.athletes[a.ID] = a
	return a
}

func (s *Server) newPIN() string {
	for {
		pin := fmt.Sprintf("%06d", rand.IntN(1_000_000))
		if s.athleteByPIN(pin) == nil {
			return pin
		}
	}
}

func (s *Server) athleteByPIN(pin string) *athletes.Athlete {
	for _, a := range s.athletes {
		if a.PIN == pin {
			return a
		}
	}
	return nil
}

func (s *Server) link(phone string, athleteID int) bool {
	if s.linked(phone, athleteID) {
		return false
	}
	s.links = append(s.links, phoneLink{ID: s.id("phone"), Phone: phone, AthleteID: athleteID})
	return true
}

func (s *Server) unlink(phone string, athleteID int) bool {
	for i, l := range s.links {
		if l.Phone == phone && l.AthleteID == athleteID {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Server) linked(phone string, athleteID int) bool {
	for _, l := range s.links {
		if l.Phone == phone && l.AthleteID == athleteID {
			return true
		}
	}
	return false
}

// phoneAthletes lists the athletes linked to phone in link order.
func (s *Server) phoneAthletes(phone string) []*athletes.Athlete {
	out := []*athletes.Athlete{}
	for _, l := range s.links {
		if l.Phone == phone {
			if a, ok := s.athletes[l.AthleteID]; ok {
				out = append(out, a)
			}
		}
	}
	return out
}

func (s *Server) athletePhones(athleteID int) []athletes.Phone {
	out := []athletes.Phone{}
	for _, l := range s.links {
		if l.AthleteID == athleteID {
			out = append(out, athletes.Phone{ID: l.ID, PhoneNumber: l.Phone})
		}
	}
	return out
}

func (s *Server) association(a *athletes.Athlete, phone string) athletes.Association {
	now := s.now()
	return athletes.Association{
		AthleteID:    a.ID,
		AthleteName:  a.Name,
		AthletePIN:   a.PIN,
		PhoneNumber:  phone,
		CheckInCount: s.countCheckIns(a.ID, now.Year(), int(now.Month())),
	}
}

func (s *Server) countCheckIns(athleteID, year, month int) int {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	n := 0
	for _, c := range s.checkIns {
		if c.Athlete == athleteID && len(c.Date) >= len(prefix) && c.Date[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (s *Server) checkedIn(athleteID, sessionID int, date string) bool {
	for _, c := range s.checkIns {
		if c.Athlete == athleteID && c.TrainingSession == sessionID && c.Date == date {
			return true
		}
	}
	return false
}

func (s *Server) addCheckIn(a *athletes.Athlete, ts *trainingsessions.TrainingSession, date string) checkins.CheckIn {
	c := checkins.CheckIn{
		ID:                  s.id("checkin"),
		Athlete:             a.ID,
		AthleteName:         a.Name,
		TrainingSession:     ts.ID,
		TrainingSessionName: ts.Name,
		Date:                date,
		CreatedAt:           s.now(),
	}
	s.checkIns = append(s.checkIns, c)
	return c
}

func (s *Server) removeCheckIn(athleteID, sessionID int, date string) {
	kept := s.checkIns[:0]
	for _, c := range s.checkIns {
		if c.Athlete == athleteID && c.TrainingSession == sessionID && c.Date == date {
			continue
		}
		kept = append(kept, c)
	}
	s.checkIns = kept
}

// currentSession is the active session whose check-in window contains now.
func (s *Server) currentSession(now time.Time) *trainingsessions.TrainingSession {
	for _, ts := range s.sortedSessions() {
		if ts.IsCurrent(now, s.checkInWindow) {
			return ts
		}
	}
	return nil
}

func (s *Server) sortedSessions() []*trainingsessions.TrainingSession {
	out := make([]*trainingsessions.TrainingSession, 0, len(s.sessions))
	for _, ts := range s.sessions {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) sortedAthletes() []*athletes.Athlete {
	out := make([]*athletes.Athlete, 0, len(s.athletes))
	for _, a := range s.athletes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// firstPhone is the athlete's oldest linked number, for listings.
func (s *Server) firstPhone(athleteID int) string {
	for _, l := range s.links {
		if l.AthleteID == athleteID {
			return l.Phone
		}
	}
	return ""
}
