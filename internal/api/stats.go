package api

import (
	"context"
	"net/url"

	"github.com/dukerupert/stride/internal/domain"
)

// StatsAPI serves the admin dashboard.
type StatsAPI struct{ c *Client }

func (a *StatsAPI) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := a.c.getJSON(ctx, "stats", "dashboard", "/stats/dashboard", nil, &out)
	return out, err
}

// Analytics returns sales for period ("7d", "30d", "90d"); empty means 30d.
func (a *StatsAPI) Analytics(ctx context.Context, period string) (domain.Analytics, error) {
	if period == "" {
		period = "30d"
	}
	var out domain.Analytics
	err := a.c.getJSON(ctx, "stats", "analytics", "/stats/analytics", url.Values{"period": {period}}, &out)
	if out.Period == "" {
		out.Period = period
	}
	return out, err
}
