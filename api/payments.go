package api

import (
	"context"

	"github.com/jrsteele09/gym-checkin/internal/utils"
	"github.com/jrsteele09/gym-checkin/payments"
)

func (c *Client) Payments(ctx context.Context, f payments.Filter) ([]payments.AthletePayment, error) {
	return getList[payments.AthletePayment](ctx, c, RouteAthletePayments, f.Query())
}

func (c *Client) CreatePayment(ctx context.Context, p payments.NewPayment) (*payments.AthletePayment, error) {
	var out payments.AthletePayment
	if err := c.post(ctx, RouteAthletePayments, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePayment(ctx context.Context, id int, u payments.Update) (*payments.AthletePayment, error) {
	var out payments.AthletePayment
	if err := c.patch(ctx, paymentRoute(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkPaid(ctx context.Context, id int) (*payments.AthletePayment, error) {
	return c.UpdatePayment(ctx, id, payments.Update{Paid: utils.Ptr(true)})
}
