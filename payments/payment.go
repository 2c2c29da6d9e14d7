package payments

import (
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/settings"
)

const (
	MsgInvalidAmount = "The amount must be a positive number."
	MsgInvalidPeriod = "The payment period is not valid."
	MsgNoAthlete     = "Choose the athlete the payment is for."
)

// AthletePayment is what an athlete paid, or owes, for one month.
type AthletePayment struct {
	ID      int        `json:"id"`
	Athlete int        `json:"athlete"`
	Year    int        `json:"year"`
	Month   int        `json:"month"`
	Amount  string     `json:"amount"`
	Paid    bool       `json:"paid"`
	PaidAt  *time.Time `json:"paid_at"`
}

func (p AthletePayment) AmountValue() float64 {
	v, _ := strconv.ParseFloat(p.Amount, 64)
	return v
}

// NewPayment is the create request body.
type NewPayment struct {
	Athlete int    `json:"athlete"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Amount  string `json:"amount"`
	Paid    bool   `json:"paid"`
}

// Validate checks the request before it is sent.
func (p NewPayment) Validate() error {
	if p.Athlete <= 0 {
		return errors.Invalid("athlete", MsgNoAthlete)
	}
	if p.Month < 1 || p.Month > 12 || p.Year < 1 {
		return errors.Invalid("month", MsgInvalidPeriod)
	}
	v, err := strconv.ParseFloat(p.Amount, 64)
	if err != nil || v < 0 {
		return errors.Invalid("amount", MsgInvalidAmount)
	}
	return nil
}

// For builds a payment of amount for the athlete and month.
func For(athleteID, year, month int, amount float64, paid bool) NewPayment {
	return NewPayment{
		Athlete: athleteID,
		Year:    year,
		Month:   month,
		Amount:  settings.FormatCost(amount),
		Paid:    paid,
	}
}

// Update is a partial payment update; nil fields are left unchanged.
type Update struct {
	Amount *string `json:"amount,omitempty"`
	Paid   *bool   `json:"paid,omitempty"`
}

// Filter narrows a payment listing. Zero fields are not sent.
type Filter struct {
	Athlete int
	Year    int
	Month   int
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Athlete > 0 {
		q.Set("athlete", strconv.Itoa(f.Athlete))
	}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if f.Month > 0 {
		q.Set("month", strconv.Itoa(f.Month))
	}
	return q
}

// Totals sums the paid and the outstanding amounts of list.
func Totals(list []AthletePayment) (paid, outstanding float64) {
	for _, p := range list {
		if p.Paid {
			paid += p.AmountValue()
		} else {
			outstanding += p.AmountValue()
		}
	}
	return paid, outstanding
}
