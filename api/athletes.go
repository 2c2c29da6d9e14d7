package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/internal/utils"
)

func (c *Client) Athletes(ctx context.Context) ([]athletes.Athlete, error) {
	return getList[athletes.Athlete](ctx, c, RouteAthletes, nil)
}

func (c *Client) Athlete(ctx context.Context, id int) (*athletes.Athlete, error) {
	var a athletes.Athlete
	if err := c.get(ctx, athleteRoute(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateAthlete(ctx context.Context, id int, u athletes.Update) (*athletes.Athlete, error) {
	var a athletes.Athlete
	if err := c.patch(ctx, athleteRoute(id), u, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) SetSubscription(ctx context.Context, id int, active bool) (*athletes.Athlete, error) {
	return c.UpdateAthlete(ctx, id, athletes.Update{SubscriptionActive: utils.Ptr(active)})
}

func (c *Client) AthletePhones(ctx context.Context, id int) ([]athletes.Phone, error) {
	var resp struct {
		Phones []athletes.Phone `json:"phones"`
	}
	if err := c.get(ctx, athletePhonesRoute(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Phones == nil {
		return []athletes.Phone{}, nil
	}
	return resp.Phones, nil
}

// Attendance returns the athlete's sessions for month (1-12) of year.
func (c *Client) Attendance(ctx context.Context, id, year, month int) (*athletes.AttendanceMonth, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))

	var m athletes.AttendanceMonth
	if err := c.get(ctx, attendanceRoute(id), q, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateAttendance marks the athlete present or absent at one session
// occurrence.
func (c *Client) UpdateAttendance(ctx context.Context, id int, u athletes.AttendanceUpdate) error {
	return c.patch(ctx, attendanceRoute(id), u, nil)
}
