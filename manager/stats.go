package manager

import (
	"context"
	"sync"

	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/calendar"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/jrsteele09/gym-checkin/settings"
	"github.com/rs/zerolog/log"
)

// StatsRow is one athlete line of the monthly stats. AmountDue is nil when
// the prices could not be loaded.
type StatsRow struct {
	checkins.AthleteStats
	AmountDue *float64
}

// Stats is the monthly check-in overview.
type Stats struct {
	backend StatsBackend
	store   kvstore.Store
	opts    options

	mu       sync.Mutex
	period   calendar.Period
	loaded   bool
	rows     []StatsRow
	settings *settings.AppSettings
}

func NewStats(backend StatsBackend, store kvstore.Store, opts ...Option) *Stats {
	return &Stats{backend: backend, store: store, opts: newOptions(opts)}
}

// Period is the month shown, restored from the store on first use.
func (s *Stats) Period(ctx context.Context) calendar.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.period = calendar.Load(ctx, s.store, calendar.StatsKeys, s.opts.now())
		s.loaded = true
	}
	return s.period
}

func (s *Stats) Rows() []StatsRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StatsRow(nil), s.rows...)
}

func (s *Stats) Row(athleteID int) (StatsRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.AthleteID == athleteID {
			return r, true
		}
	}
	return StatsRow{}, false
}

// Total is the number of check-ins in the month.
func (s *Stats) Total() int {
	n := 0
	for _, r := range s.Rows() {
		n += r.CheckInCount
	}
	return n
}

// Load fetches the month's stats and the prices. Missing prices only blank
// the amounts.
func (s *Stats) Load(ctx context.Context) error {
	p := s.Period(ctx)
	stats, err := s.backend.MonthlyStats(ctx, p.Year, p.Month)
	if err != nil {
		return err
	}

	prices, err := s.backend.AppSettings(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load prices")
		prices = nil
	}

	rows := make([]StatsRow, 0, len(stats.Athletes))
	for _, a := range stats.Athletes {
		row := StatsRow{AthleteStats: a}
		if prices != nil {
			if due, err := prices.AmountDue(a.SubscriptionActive, a.CheckInCount); err == nil {
				row.AmountDue = &due
			}
		}
		rows = append(rows, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.period != p {
		return errors.ErrCancelled
	}
	s.rows = rows
	s.settings = prices
	return nil
}

// SetPeriod persists p and loads its stats.
func (s *Stats) SetPeriod(ctx context.Context, p calendar.Period) error {
	if err := calendar.Save(ctx, s.store, calendar.StatsKeys, p); err != nil {
		return err
	}
	s.mu.Lock()
	s.period = p
	s.loaded = true
	s.mu.Unlock()
	return s.Load(ctx)
}

func (s *Stats) PrevMonth(ctx context.Context) error {
	return s.SetPeriod(ctx, s.Period(ctx).Prev())
}

func (s *Stats) NextMonth(ctx context.Context) error {
	return s.SetPeriod(ctx, s.Period(ctx).Next())
}

// ToggleSubscription flips the athlete's subscription and reloads.
func (s *Stats) ToggleSubscription(ctx context.Context, athleteID int) error {
	row, ok := s.Row(athleteID)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "athlete %d", athleteID)
	}
	if _, err := s.backend.SetSubscription(ctx, athleteID, !row.SubscriptionActive); err != nil {
		return err
	}
	return s.Load(ctx)
}

// EditAthlete renames the athlete and, when phone is given, links it.
func (s *Stats) EditAthlete(ctx context.Context, athleteID int, name, phone string) error {
	name, err := athletes.ValidateName(name)
	if err != nil {
		return err
	}
	if err := athletes.ValidateOptionalPhone(phone); err != nil {
		return err
	}

	u := athletes.Update{Name: &name}
	if phone != "" {
		u.PhoneNumber = &phone
	}
	if _, err := s.backend.UpdateAthlete(ctx, athleteID, u); err != nil {
		return err
	}
	return s.Load(ctx)
}
