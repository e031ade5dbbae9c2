package domain

// DashboardSummary is the admin dashboard headline block.
type DashboardSummary struct {
	TotalRevenue   Money `json:"totalRevenue"`
	TotalOrders    int   `json:"totalOrders"`
	TotalCustomers int   `json:"totalCustomers"`
	AvgOrderValue  Money `json:"avgOrderValue"`
}

// DashboardStats is the response of GET /stats/dashboard.
type DashboardStats struct {
	Stats            DashboardSummary `json:"stats"`
	LowStockProducts []Product        `json:"lowStockProducts"`
	RecentOrders     []Order          `json:"recentOrders,omitempty"`
}

// SalesPoint is one bucket of the sales-over-time series.
type SalesPoint struct {
	Date   string `json:"date"`
	Sales  Money  `json:"sales"`
	Orders int    `json:"orders"`
}

// CategoryRevenue is revenue attributed to one category.
type CategoryRevenue struct {
	Category Category `json:"category"`
	Revenue  Money    `json:"revenue"`
	Count    int      `json:"count"`
}

// Analytics is the response of GET /stats/analytics.
type Analytics struct {
	Period            string            `json:"period"`
	SalesOverTime     []SalesPoint      `json:"salesOverTime"`
	CategoryBreakdown []CategoryRevenue `json:"categoryBreakdown"`
}
