package checkin_test

import (
	"testing"

	"github.com/jrsteele09/gym-checkin/checkin"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	valid := []struct {
		from  checkin.State
		event checkin.Event
		want  checkin.State
	}{
		{checkin.StatePhone, checkin.EventPhoneAccepted, checkin.StateAthletes},
		{checkin.StateAthletes, checkin.EventOpenNewAthlete, checkin.StateNewAthlete},
		{checkin.StateNewAthlete, checkin.EventPINAcknowledged, checkin.StateAthletes},
		{checkin.StateNewAthlete, checkin.EventCancel, checkin.StateAthletes},
		{checkin.StateAthletes, checkin.EventOpenAddViaPIN, checkin.StateAddViaPIN},
		{checkin.StateAddViaPIN, checkin.EventPINAccepted, checkin.StateAthletes},
		{checkin.StateAddViaPIN, checkin.EventCancel, checkin.StateAthletes},
	}
	for _, tc := range valid {
		t.Run(tc.from.String()+"/"+tc.event.String(), func(t *testing.T) {
			got, err := checkin.Next(tc.from, tc.event)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	t.Run("reset from anywhere", func(t *testing.T) {
		for _, s := range []checkin.State{checkin.StatePhone, checkin.StateAthletes, checkin.StateNewAthlete, checkin.StateAddViaPIN} {
			got, err := checkin.Next(s, checkin.EventReset)
			require.NoError(t, err)
			require.Equal(t, checkin.StatePhone, got)
		}
	})

	t.Run("invalid pairs keep the state", func(t *testing.T) {
		got, err := checkin.Next(checkin.StatePhone, checkin.EventOpenNewAthlete)
		require.ErrorIs(t, err, errors.ErrInvalidTransition)
		require.Equal(t, checkin.StatePhone, got)

		got, err = checkin.Next(checkin.StateAthletes, checkin.EventCancel)
		require.ErrorIs(t, err, errors.ErrInvalidTransition)
		require.Equal(t, checkin.StateAthletes, got)

		_, err = checkin.Next(checkin.StateNewAthlete, checkin.EventPINAccepted)
		require.ErrorIs(t, err, errors.ErrInvalidTransition)
	})
}

func TestStateString(t *testing.T) {
	require.Equal(t, "add_via_pin", checkin.StateAddViaPIN.String())
	require.Equal(t, "State(9)", checkin.State(9).String())
	require.Equal(t, "pin_acknowledged", checkin.EventPINAcknowledged.String())
}

func TestSummaryMessage(t *testing.T) {
	s := checkin.Summary{Succeeded: []string{"Ana Pop", "Dan Pop"}}
	require.Equal(t, "2 succeeded", s.Message())

	s.Failed = []checkin.Failure{{AthleteID: 3, Name: "Ion Pop"}, {AthleteID: 4, Name: "Eva Pop"}}
	require.Equal(t, "2 succeeded; failed: Ion Pop, Eva Pop", s.Message())
	require.Equal(t, []string{"Ion Pop", "Eva Pop"}, s.FailedNames())
}
