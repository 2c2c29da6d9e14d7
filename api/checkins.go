package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/gym-checkin/checkins"
)

func (c *Client) CreateCheckIn(ctx context.Context, req checkins.Request) (*checkins.CheckIn, error) {
	var ci checkins.CheckIn
	if err := c.post(ctx, RouteCheckIns, req, &ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

func (c *Client) CheckIns(ctx context.Context) ([]checkins.CheckIn, error) {
	return getList[checkins.CheckIn](ctx, c, RouteCheckIns, nil)
}

// MonthlyStats returns per-athlete check-in counts for month (1-12) of year.
func (c *Client) MonthlyStats(ctx context.Context, year, month int) (*checkins.MonthlyStats, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))

	stats := checkins.MonthlyStats{Year: year, Month: month}
	if err := c.get(ctx, RouteMonthlyStats, q, &stats); err != nil {
		return nil, err
	}
	if stats.Athletes == nil {
		stats.Athletes = []checkins.AthleteStats{}
	}
	return &stats, nil
}
