package manager

import (
	"context"
	"sync"

	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/calendar"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/rs/zerolog/log"
)

// AthleteDetail is one athlete's page: profile, linked phones and the
// attendance calendar.
type AthleteDetail struct {
	backend AthleteBackend
	store   kvstore.Store
	id      int
	opts    options

	mu          sync.Mutex
	athlete     *athletes.Athlete
	phones      []athletes.Phone
	period      calendar.Period
	attendance  athletes.AttendanceMonth
	selectedDay string
}

func NewAthleteDetail(backend AthleteBackend, store kvstore.Store, athleteID int, opts ...Option) *AthleteDetail {
	o := newOptions(opts)
	return &AthleteDetail{
		backend: backend,
		store:   store,
		id:      athleteID,
		opts:    o,
		period:  calendar.Load(context.Background(), store, calendar.AthleteKeys(athleteID), o.now()),
	}
}

// Load fetches the athlete, its phones and the attendance of the persisted
// month.
func (v *AthleteDetail) Load(ctx context.Context) error {
	if err := v.loadAthlete(ctx); err != nil {
		return err
	}
	if err := v.loadPhones(ctx); err != nil {
		return err
	}
	return v.loadAttendance(ctx)
}

func (v *AthleteDetail) Athlete() *athletes.Athlete {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.athlete
}

func (v *AthleteDetail) Phones() []athletes.Phone {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]athletes.Phone(nil), v.phones...)
}

func (v *AthleteDetail) Period() calendar.Period {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.period
}

// Grid is the month's calendar with each day's attendance.
func (v *AthleteDetail) Grid() [][7]calendar.Cell {
	v.mu.Lock()
	defer v.mu.Unlock()
	return calendar.AttendanceGrid(v.period, v.attendance)
}

// Years lists the years the period picker offers.
func (v *AthleteDetail) Years() []int {
	return calendar.SelectableYears(v.opts.now())
}

// SelectedDay returns the sessions of the selected day. ok is false when no
// day is selected; a selected day without sessions has none.
func (v *AthleteDetail) SelectedDay() (athletes.AttendanceDay, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selectedDay == "" {
		return athletes.AttendanceDay{}, false
	}
	if day, ok := v.attendance.ByDate()[v.selectedDay]; ok {
		return day, true
	}
	return athletes.AttendanceDay{Date: v.selectedDay}, true
}

// SelectDay selects a day of the shown month.
func (v *AthleteDetail) SelectDay(day int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if day < 1 || day > v.period.DaysIn() {
		return errors.Invalid("day", "day is not in "+v.period.String())
	}
	v.selectedDay = v.period.Date(day)
	return nil
}

// SetPeriod persists p for this athlete and loads its attendance. The day
// selection is cleared.
func (v *AthleteDetail) SetPeriod(ctx context.Context, p calendar.Period) error {
	if err := calendar.Save(ctx, v.store, calendar.AthleteKeys(v.id), p); err != nil {
		return err
	}
	v.mu.Lock()
	v.period = p
	v.selectedDay = ""
	v.mu.Unlock()
	return v.loadAttendance(ctx)
}

func (v *AthleteDetail) PrevMonth(ctx context.Context) error {
	return v.SetPeriod(ctx, v.Period().Prev())
}

func (v *AthleteDetail) NextMonth(ctx context.Context) error {
	return v.SetPeriod(ctx, v.Period().Next())
}

func (v *AthleteDetail) Rename(ctx context.Context, name string) error {
	name, err := athletes.ValidateName(name)
	if err != nil {
		return err
	}
	a, err := v.backend.UpdateAthlete(ctx, v.id, athletes.Update{Name: &name})
	if err != nil {
		return err
	}
	v.setAthlete(a)
	return nil
}

func (v *AthleteDetail) ToggleSubscription(ctx context.Context) error {
	cur := v.Athlete()
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "athlete %d not loaded", v.id)
	}
	a, err := v.backend.SetSubscription(ctx, v.id, !cur.SubscriptionActive)
	if err != nil {
		return err
	}
	v.setAthlete(a)
	return nil
}

// AddPhone links phone to the athlete using the athlete's PIN.
func (v *AthleteDetail) AddPhone(ctx context.Context, phone string) error {
	if err := athletes.ValidatePhone(phone); err != nil {
		return err
	}
	cur := v.Athlete()
	if cur == nil || cur.PIN == "" {
		return errors.Wrapf(errors.ErrNotFound, "PIN of athlete %d", v.id)
	}
	if _, err := v.backend.AddPhoneAthlete(ctx, phone, cur.PIN); err != nil {
		return err
	}
	return v.loadPhones(ctx)
}

func (v *AthleteDetail) RemovePhone(ctx context.Context, phone string, confirmed bool) error {
	if !confirmed {
		return errors.ErrNotConfirmed
	}
	if err := v.backend.RemovePhoneAthlete(ctx, phone, v.id); err != nil {
		return err
	}
	return v.loadPhones(ctx)
}

// ToggleAttendance flips the athlete's presence at one session of the
// selected day, reloads the month and keeps the day selected.
func (v *AthleteDetail) ToggleAttendance(ctx context.Context, sessionID int) error {
	day, ok := v.SelectedDay()
	if !ok {
		return errors.Invalid("day", "select a day first")
	}
	var session *athletes.SessionAttendance
	for i := range day.Sessions {
		if day.Sessions[i].ID == sessionID {
			session = &day.Sessions[i]
		}
	}
	if session == nil {
		return errors.Wrapf(errors.ErrNotFound, "session %d on %s", sessionID, day.Date)
	}

	err := v.backend.UpdateAttendance(ctx, v.id, athletes.AttendanceUpdate{
		TrainingSessionID: sessionID,
		Date:              day.Date,
		Present:           !session.Attended,
	})
	if err != nil {
		return err
	}
	return v.loadAttendance(ctx)
}

func (v *AthleteDetail) loadAthlete(ctx context.Context) error {
	a, err := v.backend.Athlete(ctx, v.id)
	if err != nil {
		return err
	}
	v.setAthlete(a)
	return nil
}

func (v *AthleteDetail) setAthlete(a *athletes.Athlete) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if a.PIN == "" && v.athlete != nil {
		a.PIN = v.athlete.PIN
	}
	v.athlete = a
}

func (v *AthleteDetail) loadPhones(ctx context.Context) error {
	phones, err := v.backend.AthletePhones(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.phones = phones
	return nil
}

func (v *AthleteDetail) loadAttendance(ctx context.Context) error {
	p := v.Period()
	month, err := v.backend.Attendance(ctx, v.id, p.Year, p.Month)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.period != p {
		log.Debug().Int("athlete_id", v.id).Msg("Dropping attendance of a stale period")
		return nil
	}
	v.attendance = *month
	return nil
}
