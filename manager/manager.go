// Package manager holds the headless view-models behind the manager
// dashboard. Each view loads its data through the REST client, keeps the
// last good copy and reloads after every change instead of patching its
// local state.
package manager

import (
	"context"
	"time"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/payments"
	"github.com/jrsteele09/gym-checkin/sessions"
	"github.com/jrsteele09/gym-checkin/settings"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/jrsteele09/gym-checkin/users"
)

const (
	MsgWrongCredentials = "Wrong username or password."
	MsgSessionExpired   = "Your session has expired. Please log in again."
	MsgGeneric          = "Something went wrong. Please try again."
)

type AuthBackend interface {
	Login(ctx context.Context, username, password string) (*api.TokenPair, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*users.User, error)
	Sessions() *sessions.Manager
}

type StatsBackend interface {
	MonthlyStats(ctx context.Context, year, month int) (*checkins.MonthlyStats, error)
	AppSettings(ctx context.Context) (*settings.AppSettings, error)
	SetSubscription(ctx context.Context, id int, active bool) (*athletes.Athlete, error)
	UpdateAthlete(ctx context.Context, id int, u athletes.Update) (*athletes.Athlete, error)
}

type TrainingSessionsBackend interface {
	TrainingSessions(ctx context.Context) ([]trainingsessions.TrainingSession, error)
	CreateTrainingSession(ctx context.Context, p trainingsessions.Payload) (*trainingsessions.TrainingSession, error)
	UpdateTrainingSession(ctx context.Context, id int, p trainingsessions.Payload) (*trainingsessions.TrainingSession, error)
	DeleteTrainingSession(ctx context.Context, id int) error
}

type UsersBackend interface {
	Me(ctx context.Context) (*users.User, error)
	Users(ctx context.Context) ([]users.User, error)
	CreateUser(ctx context.Context, n users.NewUser) (*users.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type SettingsBackend interface {
	AppSettings(ctx context.Context) (*settings.AppSettings, error)
	UpdateAppSettings(ctx context.Context, u settings.Update) (*settings.AppSettings, error)
}

type AthleteBackend interface {
	Athlete(ctx context.Context, id int) (*athletes.Athlete, error)
	UpdateAthlete(ctx context.Context, id int, u athletes.Update) (*athletes.Athlete, error)
	SetSubscription(ctx context.Context, id int, active bool) (*athletes.Athlete, error)
	AthletePhones(ctx context.Context, id int) ([]athletes.Phone, error)
	AddPhoneAthlete(ctx context.Context, phone, pin string) (*athletes.Association, error)
	RemovePhoneAthlete(ctx context.Context, phone string, athleteID int) error
	Attendance(ctx context.Context, id, year, month int) (*athletes.AttendanceMonth, error)
	UpdateAttendance(ctx context.Context, id int, u athletes.AttendanceUpdate) error
}

type PaymentsBackend interface {
	Payments(ctx context.Context, f payments.Filter) ([]payments.AthletePayment, error)
	CreatePayment(ctx context.Context, p payments.NewPayment) (*payments.AthletePayment, error)
	MarkPaid(ctx context.Context, id int) (*payments.AthletePayment, error)
}

var (
	_ AuthBackend             = (*api.Client)(nil)
	_ StatsBackend            = (*api.Client)(nil)
	_ TrainingSessionsBackend = (*api.Client)(nil)
	_ UsersBackend            = (*api.Client)(nil)
	_ SettingsBackend         = (*api.Client)(nil)
	_ AthleteBackend          = (*api.Client)(nil)
	_ PaymentsBackend         = (*api.Client)(nil)
)

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithNow sets the clock used for default periods and year ranges.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Message turns an error from any view into text for the user. Expired
// credentials get their own message; everything the backend did not explain
// gets MsgGeneric.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, errors.ErrUnauthenticated) {
		return MsgSessionExpired
	}
	return api.UserMessage(err, MsgGeneric)
}
