package checkins_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/stretchr/testify/require"
)

func TestForAthlete(t *testing.T) {
	raw, err := json.Marshal(checkins.ForAthlete("0712345678", 4))
	require.NoError(t, err)
	require.JSONEq(t, `{"phone_number":"0712345678","athlete_id":4}`, string(raw))
}

func TestMonthlyStats_TotalCheckIns(t *testing.T) {
	stats := checkins.MonthlyStats{Athletes: []checkins.AthleteStats{
		{AthleteID: 1, CheckInCount: 3},
		{AthleteID: 2, CheckInCount: 5},
	}}
	require.Equal(t, 8, stats.TotalCheckIns())
	require.Zero(t, checkins.MonthlyStats{}.TotalCheckIns())
}
