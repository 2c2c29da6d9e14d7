package api

import (
	"context"

	"github.com/jrsteele09/gym-checkin/athletes"
)

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name,omitempty"`
	PIN         string `json:"pin,omitempty"`
	AthleteID   int    `json:"athlete_id,omitempty"`
}

// PhoneAthletes lists the athletes associated with phone.
func (c *Client) PhoneAthletes(ctx context.Context, phone string) ([]athletes.Association, error) {
	var resp struct {
		Athletes []athletes.Association `json:"athletes"`
	}
	if err := c.post(ctx, RoutePhoneGetAthletes, phoneRequest{PhoneNumber: phone}, &resp); err != nil {
		return nil, err
	}
	if resp.Athletes == nil {
		return []athletes.Association{}, nil
	}
	return resp.Athletes, nil
}

// CreatePhoneAthlete registers a new athlete on phone. The response carries
// the athlete's PIN.
func (c *Client) CreatePhoneAthlete(ctx context.Context, phone, name string) (*athletes.Association, error) {
	var a athletes.Association
	if err := c.post(ctx, RoutePhoneCreateAthlete, phoneRequest{PhoneNumber: phone, Name: name}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AddPhoneAthlete links the athlete owning pin to phone.
func (c *Client) AddPhoneAthlete(ctx context.Context, phone, pin string) (*athletes.Association, error) {
	var a athletes.Association
	if err := c.post(ctx, RoutePhoneAddAthlete, phoneRequest{PhoneNumber: phone, PIN: pin}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) RemovePhoneAthlete(ctx context.Context, phone string, athleteID int) error {
	return c.post(ctx, RoutePhoneRemoveAthlete, phoneRequest{PhoneNumber: phone, AthleteID: athleteID}, nil)
}
