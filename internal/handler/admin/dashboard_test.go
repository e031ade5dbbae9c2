package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/stride/internal/domain"
)

func TestDashboardHandler_Analytics(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedPeriod string
		expectedStatus int
	}{
		{"explicit period", "/dashboard/analytics?period=7d", "7d", http.StatusOK},
		{"default left to the service", "/dashboard/analytics", "", http.StatusOK},
		{"unknown period", "/dashboard/analytics?period=1y", "1y", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := NewDashboardHandler(&mockAdminService{
				analyticsFunc: func(ctx context.Context, period string) (domain.Analytics, error) {
					got = period
					if period == "1y" {
						return domain.Analytics{}, domain.Invalid("admin.analytics", "Unknown period: 1y")
					}
					return domain.Analytics{Period: period}, nil
				},
			})

			res := serve(t, "GET /dashboard/analytics", h.Analytics, http.MethodGet, tt.target, "", nil)

			assert.Equal(t, tt.expectedStatus, res.Status)
			assert.Equal(t, tt.expectedPeriod, got)
		})
	}
}

func TestDashboardHandler_Stats(t *testing.T) {
	h := NewDashboardHandler(&mockAdminService{
		dashboardFunc: func(ctx context.Context) (domain.DashboardStats, error) {
			return domain.DashboardStats{}, domain.Errorf(domain.EFORBIDDEN, "api.stats.dashboard", "")
		},
	})

	res := serve(t, "GET /dashboard", h.Stats, http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusForbidden, res.Status)
}
