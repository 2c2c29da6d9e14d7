package api

import (
	"context"

	apperrors "github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/pkg/errors"
)

// TrainingSessions lists every configured session.
func (c *Client) TrainingSessions(ctx context.Context) ([]trainingsessions.TrainingSession, error) {
	return getList[trainingsessions.TrainingSession](ctx, c, RouteTrainingSessions, nil)
}

// CurrentTrainingSession returns the session open for check-in now. A 404
// means none is, reported as errors.ErrNoActiveSession.
func (c *Client) CurrentTrainingSession(ctx context.Context) (*trainingsessions.TrainingSession, error) {
	var s trainingsessions.TrainingSession
	if err := c.get(ctx, RouteCurrentSession, nil, &s); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoActiveSession
		}
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateTrainingSession(ctx context.Context, p trainingsessions.Payload) (*trainingsessions.TrainingSession, error) {
	var s trainingsessions.TrainingSession
	if err := c.post(ctx, RouteTrainingSessions, p, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateTrainingSession replaces the session with p.
func (c *Client) UpdateTrainingSession(ctx context.Context, id int, p trainingsessions.Payload) (*trainingsessions.TrainingSession, error) {
	var s trainingsessions.TrainingSession
	if err := c.put(ctx, trainingSessionRoute(id), p, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteTrainingSession(ctx context.Context, id int) error {
	return c.delete(ctx, trainingSessionRoute(id))
}
