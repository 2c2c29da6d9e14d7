// Package calendar holds the month/year arithmetic behind the stats and
// attendance views.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/rs/zerolog/log"
)

// MinYear is the first year the views let the user pick.
const MinYear = 2020

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Period is a calendar month. Month is 1-12.
type Period struct {
	Month int
	Year  int
}

func Current(now time.Time) Period {
	return Period{Month: int(now.Month()), Year: now.Year()}
}

func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year > 0
}

func (p Period) Prev() Period {
	if p.Month <= 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

func (p Period) Next() Period {
	if p.Month >= 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// First is midnight UTC on the first day of the month.
func (p Period) First() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) DaysIn() int {
	return p.First().AddDate(0, 1, -1).Day()
}

// Date formats day of the month as YYYY-MM-DD.
func (p Period) Date(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", p.Year, p.Month, day)
}

func (p Period) String() string {
	return MonthLabel(p.Month) + " " + fmt.Sprint(p.Year)
}

func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("Month(%d)", month)
	}
	return monthNames[month-1]
}

// SelectableYears lists MinYear through next year.
func SelectableYears(now time.Time) []int {
	years := []int{}
	for y := MinYear; y <= now.Year()+1; y++ {
		years = append(years, y)
	}
	return years
}

// Keys names the two store entries a view keeps its period in.
type Keys struct {
	Month string
	Year  string
}

var StatsKeys = Keys{Month: kvstore.KeyStatsMonth, Year: kvstore.KeyStatsYear}

func AthleteKeys(athleteID int) Keys {
	return Keys{
		Month: kvstore.AthleteCalendarMonthKey(athleteID),
		Year:  kvstore.AthleteCalendarYearKey(athleteID),
	}
}

// Load reads a persisted period. Missing or out of range values fall back
// to the month of now.
func Load(ctx context.Context, store kvstore.Store, keys Keys, now time.Time) Period {
	cur := Current(now)
	p := Period{
		Month: kvstore.GetInt(ctx, store, keys.Month, cur.Month),
		Year:  kvstore.GetInt(ctx, store, keys.Year, cur.Year),
	}
	if !p.Valid() {
		log.Debug().Str("key", keys.Month).Int("month", p.Month).Int("year", p.Year).Msg("Ignoring stored period")
		return cur
	}
	return p
}

func Save(ctx context.Context, store kvstore.Store, keys Keys, p Period) error {
	if !p.Valid() {
		return errors.Invalid("month", fmt.Sprintf("invalid period %d/%d", p.Month, p.Year))
	}
	if err := kvstore.SetInt(ctx, store, keys.Month, p.Month); err != nil {
		return errors.Wrapf(err, "save %s", keys.Month)
	}
	if err := kvstore.SetInt(ctx, store, keys.Year, p.Year); err != nil {
		return errors.Wrapf(err, "save %s", keys.Year)
	}
	return nil
}
