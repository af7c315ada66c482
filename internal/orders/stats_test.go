package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

func TestComputeStats(t *testing.T) {
	rows := []models.Order{
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(500)},
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(300)},
		{Status: enums.OrderStatusPending, Total: decimal.NewFromInt(100)},
		{Status: enums.OrderStatusCancelled, Total: decimal.NewFromInt(999)},
	}

	stats := ComputeStats(rows)
	if stats.TotalOrders != 4 {
		t.Fatalf("expected 4 orders got %d", stats.TotalOrders)
	}
	if !stats.TotalRevenue.Equal(decimal.NewFromInt(1899)) {
		t.Fatalf("expected revenue 1899 got %s", stats.TotalRevenue)
	}
	if !stats.AverageOrder.Equal(decimal.NewFromFloat(474.75)) {
		t.Fatalf("expected average 474.75 got %s", stats.AverageOrder)
	}
	if stats.CountByStatus[enums.OrderStatusDelivered] != 2 {
		t.Fatalf("expected 2 delivered got %d", stats.CountByStatus[enums.OrderStatusDelivered])
	}
	if stats.CountByStatus[enums.OrderStatusCancelled] != 1 {
		t.Fatalf("expected 1 cancelled got %d", stats.CountByStatus[enums.OrderStatusCancelled])
	}
}

func TestComputeStatsIncludesCancelledRevenue(t *testing.T) {
	rows := []models.Order{
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(10)},
		{Status: enums.OrderStatusCancelled, Total: decimal.NewFromInt(30)},
	}

	stats := ComputeStats(rows)
	if !stats.TotalRevenue.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected revenue 40 got %s", stats.TotalRevenue)
	}
	if !stats.AverageOrder.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected average 20 got %s", stats.AverageOrder)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalOrders != 0 || !stats.TotalRevenue.IsZero() || !stats.AverageOrder.IsZero() {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestComputeDailyRevenueBucketsByUTCDay(t *testing.T) {
	dayOne := time.Date(2026, 8, 1, 23, 30, 0, 0, time.UTC)
	dayTwoEarly := time.Date(2026, 8, 2, 0, 15, 0, 0, time.UTC)
	dayTwoLate := time.Date(2026, 8, 2, 21, 0, 0, 0, time.UTC)

	rows := []models.Order{
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(200), CreatedAt: dayTwoLate},
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(100), CreatedAt: dayOne},
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(50), CreatedAt: dayTwoEarly},
		{Status: enums.OrderStatusPending, Total: decimal.NewFromInt(999), CreatedAt: dayOne},
	}

	points := ComputeDailyRevenue(rows)
	if len(points) != 2 {
		t.Fatalf("expected 2 buckets got %d", len(points))
	}
	if points[0].Date != "2026-08-01" || points[1].Date != "2026-08-02" {
		t.Fatalf("expected ascending dates, got %+v", points)
	}
	if !points[0].Revenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected day one revenue 100 got %s", points[0].Revenue)
	}
	if !points[1].Revenue.Equal(decimal.NewFromInt(250)) || points[1].Orders != 2 {
		t.Fatalf("expected day two revenue 250 over 2 orders, got %+v", points[1])
	}
}

func TestComputeDailyRevenueIgnoresDeliveryTimestamp(t *testing.T) {
	placed := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	delivered := time.Date(2026, 8, 2, 1, 0, 0, 0, time.UTC)

	rows := []models.Order{
		{Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(75), CreatedAt: placed, DeliveredAt: &delivered},
	}

	points := ComputeDailyRevenue(rows)
	if len(points) != 1 {
		t.Fatalf("expected 1 bucket got %d", len(points))
	}
	if points[0].Date != "2026-08-01" {
		t.Fatalf("expected order bucketed on its placement day, got %q", points[0].Date)
	}
}

func TestComputeDailyRevenueSkipsNonDelivered(t *testing.T) {
	now := time.Now().UTC()
	rows := []models.Order{
		{Status: enums.OrderStatusPending, Total: decimal.NewFromInt(10), CreatedAt: now},
		{Status: enums.OrderStatusCancelled, Total: decimal.NewFromInt(20), CreatedAt: now},
	}
	if points := ComputeDailyRevenue(rows); len(points) != 0 {
		t.Fatalf("expected no buckets, got %+v", points)
	}
}
