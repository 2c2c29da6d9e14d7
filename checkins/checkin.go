package checkins

import (
	"time"

	"github.com/jrsteele09/gym-checkin/internal/utils"
)

// Request is the check-in request body. The kiosk always names the athlete by
// id; AthleteName is the older new-athlete-by-name form the backend still
// accepts.
type Request struct {
	PhoneNumber string `json:"phone_number"`
	AthleteID   *int   `json:"athlete_id,omitempty"`
	AthleteName string `json:"athlete_name,omitempty"`
}

// ForAthlete checks in an athlete already linked to phone.
func ForAthlete(phone string, athleteID int) Request {
	return Request{PhoneNumber: phone, AthleteID: utils.Ptr(athleteID)}
}

// CheckIn is an attendance record for one training session occurrence.
type CheckIn struct {
	ID                  int       `json:"id"`
	Athlete             int       `json:"athlete"`
	AthleteName         string    `json:"athlete_name"`
	TrainingSession     int       `json:"training_session"`
	TrainingSessionName string    `json:"training_session_name,omitempty"`
	Date                string    `json:"date"`
	CreatedAt           time.Time `json:"created_at,omitzero"`
}

// MonthlyStats is the per-athlete check-in summary of one month.
type MonthlyStats struct {
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Athletes []AthleteStats `json:"athletes"`
}

type AthleteStats struct {
	AthleteID          int    `json:"athlete_id"`
	AthleteName        string `json:"athlete_name"`
	PhoneNumber        string `json:"phone_number"`
	CheckInCount       int    `json:"checkin_count"`
	SubscriptionActive bool   `json:"subscription_active"`
}

// TotalCheckIns sums the month's check-ins over every athlete.
func (m MonthlyStats) TotalCheckIns() int {
	total := 0
	for _, a := range m.Athletes {
		total += a.CheckInCount
	}
	return total
}
