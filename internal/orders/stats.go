package orders

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// OrderStats aggregates a restaurant's order history.
type OrderStats struct {
	TotalOrders   int                       `json:"total_orders"`
	TotalRevenue  decimal.Decimal           `json:"total_revenue"`
	AverageOrder  decimal.Decimal           `json:"average_order"`
	CountByStatus map[enums.OrderStatus]int `json:"count_by_status"`
}

// RevenuePoint is one UTC day's delivered revenue.
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// ComputeStats derives order counts and revenue from the provided rows.
// Every row counts toward revenue and the average, cancelled ones included.
func ComputeStats(rows []models.Order) OrderStats {
	stats := OrderStats{
		TotalRevenue:  decimal.Zero,
		AverageOrder:  decimal.Zero,
		CountByStatus: make(map[enums.OrderStatus]int),
	}
	for i := range rows {
		order := &rows[i]
		stats.TotalOrders++
		stats.CountByStatus[order.Status]++
		stats.TotalRevenue = stats.TotalRevenue.Add(order.Total)
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrder = stats.TotalRevenue.DivRound(decimal.NewFromInt(int64(stats.TotalOrders)), 2)
	}
	return stats
}

// ComputeDailyRevenue buckets delivered orders by the UTC calendar day
// they were placed, ascending by date.
func ComputeDailyRevenue(rows []models.Order) []RevenuePoint {
	buckets := make(map[string]*RevenuePoint)
	for i := range rows {
		order := &rows[i]
		if order.Status != enums.OrderStatusDelivered {
			continue
		}
		day := order.CreatedAt.UTC().Format(time.DateOnly)
		point, ok := buckets[day]
		if !ok {
			point = &RevenuePoint{Date: day, Revenue: decimal.Zero}
			buckets[day] = point
		}
		point.Revenue = point.Revenue.Add(order.Total)
		point.Orders++
	}

	points := make([]RevenuePoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}
