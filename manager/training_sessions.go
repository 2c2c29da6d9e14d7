package manager

import (
	"context"
	"sync"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
)

// TrainingSessions is the schedule editor.
type TrainingSessions struct {
	backend TrainingSessionsBackend

	mu   sync.Mutex
	list []trainingsessions.TrainingSession
}

func NewTrainingSessions(backend TrainingSessionsBackend) *TrainingSessions {
	return &TrainingSessions{backend: backend}
}

func (v *TrainingSessions) Load(ctx context.Context) error {
	list, err := v.backend.TrainingSessions(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.list = list
	return nil
}

func (v *TrainingSessions) Sessions() []trainingsessions.TrainingSession {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]trainingsessions.TrainingSession(nil), v.list...)
}

// Form returns the edit form for session id, or an empty form for id 0.
func (v *TrainingSessions) Form(id int) (trainingsessions.Form, error) {
	if id == 0 {
		return trainingsessions.NewForm(), nil
	}
	for _, s := range v.Sessions() {
		if s.ID == id {
			return trainingsessions.FormFrom(s), nil
		}
	}
	return trainingsessions.Form{}, errors.Wrapf(errors.ErrNotFound, "training session %d", id)
}

// Save creates the session when id is 0 and replaces it otherwise.
func (v *TrainingSessions) Save(ctx context.Context, id int, form trainingsessions.Form) (*trainingsessions.TrainingSession, error) {
	payload, err := form.Payload()
	if err != nil {
		return nil, err
	}

	var saved *trainingsessions.TrainingSession
	if id == 0 {
		saved, err = v.backend.CreateTrainingSession(ctx, payload)
	} else {
		saved, err = v.backend.UpdateTrainingSession(ctx, id, payload)
	}
	if err != nil {
		return nil, err
	}
	return saved, v.Load(ctx)
}

func (v *TrainingSessions) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return errors.Wrapf(errors.ErrNotConfirmed, "%s", trainingsessions.MsgDeleteNotConfirmed)
	}
	if err := v.backend.DeleteTrainingSession(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}
