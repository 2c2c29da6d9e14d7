package payments_test

import (
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/payments"
	"github.com/stretchr/testify/require"
)

func TestNewPayment_Validate(t *testing.T) {
	require.NoError(t, payments.For(1, 2024, 3, 150, false).Validate())

	err := payments.For(0, 2024, 3, 150, false).Validate()
	require.ErrorIs(t, err, errors.ErrValidation)
	require.Equal(t, payments.MsgNoAthlete, err.Error())

	require.Equal(t, payments.MsgInvalidPeriod, payments.For(1, 2024, 13, 150, false).Validate().Error())
	require.Equal(t, payments.MsgInvalidAmount, payments.For(1, 2024, 3, -5, false).Validate().Error())
}

func TestFor_FormatsAmount(t *testing.T) {
	require.Equal(t, "75.50", payments.For(1, 2024, 3, 75.5, true).Amount)
}

func TestFilter_Query(t *testing.T) {
	require.Equal(t, "athlete=3&month=2&year=2024", payments.Filter{Athlete: 3, Year: 2024, Month: 2}.Query().Encode())
	require.Empty(t, payments.Filter{}.Query().Encode())
}

func TestTotals(t *testing.T) {
	paid, outstanding := payments.Totals([]payments.AthletePayment{
		{Amount: "100.00", Paid: true},
		{Amount: "25.50", Paid: false},
		{Amount: "50.00", Paid: true},
	})
	require.Equal(t, 150.0, paid)
	require.Equal(t, 25.5, outstanding)
}
