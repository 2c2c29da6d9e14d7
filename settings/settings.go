package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/gym-checkin/internal/errors"
)

const (
	MsgCostsRequired       = "All fields are required!"
	MsgInvalidSubscription = "The subscription price must be a positive number!"
	MsgInvalidSession      = "The session price must be a positive number!"
)

// AppSettings holds the gym-wide prices. The backend sends decimals as
// strings, e.g. "75.00".
type AppSettings struct {
	ID               int       `json:"id,omitempty"`
	SubscriptionCost string    `json:"subscription_cost"`
	SessionCost      string    `json:"session_cost"`
	UpdatedAt        time.Time `json:"updated_at,omitzero"`
}

// Costs parses both prices.
func (s AppSettings) Costs() (subscription, session float64, err error) {
	if subscription, err = strconv.ParseFloat(s.SubscriptionCost, 64); err != nil {
		return 0, 0, errors.Wrapf(err, "subscription_cost")
	}
	if session, err = strconv.ParseFloat(s.SessionCost, 64); err != nil {
		return 0, 0, errors.Wrapf(err, "session_cost")
	}
	return subscription, session, nil
}

// AmountDue is what an athlete owes for a month: the subscription price with
// an active subscription, otherwise the session price per check-in.
func (s AppSettings) AmountDue(subscriptionActive bool, checkIns int) (float64, error) {
	subscription, session, err := s.Costs()
	if err != nil {
		return 0, err
	}
	if subscriptionActive {
		return subscription, nil
	}
	return session * float64(checkIns), nil
}

// Update is the settings request body.
type Update struct {
	SubscriptionCost string `json:"subscription_cost"`
	SessionCost      string `json:"session_cost"`
}

// NewUpdate validates the two price inputs and formats them with two
// decimals.
func NewUpdate(subscriptionCost, sessionCost string) (Update, error) {
	subscriptionCost, sessionCost = strings.TrimSpace(subscriptionCost), strings.TrimSpace(sessionCost)
	if subscriptionCost == "" || sessionCost == "" {
		return Update{}, errors.Invalid("settings", MsgCostsRequired)
	}

	sub, ok := parseCost(subscriptionCost)
	if !ok {
		return Update{}, errors.Invalid("subscription_cost", MsgInvalidSubscription)
	}
	ses, ok := parseCost(sessionCost)
	if !ok {
		return Update{}, errors.Invalid("session_cost", MsgInvalidSession)
	}

	return Update{
		SubscriptionCost: FormatCost(sub),
		SessionCost:      FormatCost(ses),
	}, nil
}

func FormatCost(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func parseCost(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
