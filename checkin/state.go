// Package checkin drives athlete self check-in at the kiosk: phone entry,
// choosing which linked athletes to check in, registering a new athlete and
// linking an existing one by PIN.
package checkin

import (
	"fmt"

	"github.com/jrsteele09/gym-checkin/internal/errors"
)

type State int

const (
	StatePhone State = iota
	StateAthletes
	StateNewAthlete
	StateAddViaPIN
)

var stateNames = [...]string{"phone", "athletes", "new_athlete", "add_via_pin"}

func (s State) String() string {
	if s < StatePhone || s > StateAddViaPIN {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

type Event int

const (
	EventPhoneAccepted Event = iota
	EventOpenNewAthlete
	EventPINAcknowledged
	EventOpenAddViaPIN
	EventPINAccepted
	EventCancel
	EventReset
)

var eventNames = [...]string{"phone_accepted", "open_new_athlete", "pin_acknowledged", "open_add_via_pin", "pin_accepted", "cancel", "reset"}

func (e Event) String() string {
	if e < EventPhoneAccepted || e > EventReset {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

type transition struct {
	from  State
	event Event
}

var transitions = map[transition]State{
	{StatePhone, EventPhoneAccepted}:        StateAthletes,
	{StateAthletes, EventOpenNewAthlete}:    StateNewAthlete,
	{StateNewAthlete, EventPINAcknowledged}: StateAthletes,
	{StateNewAthlete, EventCancel}:          StateAthletes,
	{StateAthletes, EventOpenAddViaPIN}:     StateAddViaPIN,
	{StateAddViaPIN, EventPINAccepted}:      StateAthletes,
	{StateAddViaPIN, EventCancel}:           StateAthletes,
}

// Next is the transition function. Reset leads to StatePhone from anywhere;
// every pair not listed is errors.ErrInvalidTransition.
func Next(from State, event Event) (State, error) {
	if event == EventReset {
		return StatePhone, nil
	}
	if to, ok := transitions[transition{from, event}]; ok {
		return to, nil
	}
	return from, errors.Wrapf(errors.ErrInvalidTransition, "%s in state %s", event, from)
}
