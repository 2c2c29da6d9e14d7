package checkin

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/gym-checkin/trainingsessions"
)

// Failure is one athlete whose check-in the backend rejected.
type Failure struct {
	AthleteID int
	Name      string
	Err       error
}

// Summary is the outcome of a batch check-in. Succeeded and Failed hold
// athletes in submission order.
type Summary struct {
	Session   *trainingsessions.TrainingSession
	Succeeded []string
	Failed    []Failure
}

func (s Summary) FailedNames() []string {
	names := make([]string, 0, len(s.Failed))
	for _, f := range s.Failed {
		names = append(names, f.Name)
	}
	return names
}

// Message renders "N succeeded" plus the failed names when there are any.
func (s Summary) Message() string {
	msg := fmt.Sprintf("%d succeeded", len(s.Succeeded))
	if len(s.Failed) > 0 {
		msg += "; failed: " + strings.Join(s.FailedNames(), ", ")
	}
	return msg
}
