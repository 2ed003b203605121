package database_test

import (
	"context"
	"testing"
	"time"

	"go-cashflow/internal/database"
	"go-cashflow/internal/database/dbtest"
	"go-cashflow/internal/models"

	"github.com/shopspring/decimal"
)

func TestDayRangeUsesLocalMidnight(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 23:30 UTC on the 1st is already the 2nd in Jakarta.
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	r := database.DayRange(now, jakarta)

	wantFrom := time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)
	if !r.From.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", r.From, wantFrom)
	}
	if r.To.Sub(r.From) != 24*time.Hour {
		t.Fatalf("range must span one day, got %v", r.To.Sub(r.From))
	}
}

func TestCountSalesIsHalfOpenAndTenantScoped(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	day := database.DayRange(time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), time.UTC)

	sales := []models.Sale{
		{TenantID: 1, TotalAmount: decimal.NewFromInt(10), TransactionDate: day.From},
		{TenantID: 1, TotalAmount: decimal.NewFromInt(10), TransactionDate: day.To.Add(-time.Second)},
		{TenantID: 1, TotalAmount: decimal.NewFromInt(10), TransactionDate: day.To},
		{TenantID: 2, TotalAmount: decimal.NewFromInt(10), TransactionDate: day.From},
	}
	if err := db.Create(&sales).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := database.CountSales(ctx, db, 1, day)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestCountVisitors(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	day := database.DayRange(now, time.UTC)

	visitors := []models.Visitor{
		{ArrivalTime: now, QRCodeData: "a"},
		{ArrivalTime: now.AddDate(0, 0, -1), QRCodeData: "b"},
	}
	if err := db.Create(&visitors).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	today, err := database.CountVisitors(ctx, db, &day)
	if err != nil || today != 1 {
		t.Fatalf("today = %d err = %v", today, err)
	}
	total, err := database.CountVisitors(ctx, db, nil)
	if err != nil || total != 2 {
		t.Fatalf("total = %d err = %v", total, err)
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := database.Dialector("oracle", "x"); err == nil {
		t.Fatalf("expected error")
	}
}
