package ai

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go-cashflow/internal/cashflow"
	"go-cashflow/internal/database/dbtest"
	"go-cashflow/internal/models"
	"go-cashflow/internal/visitors"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newAgent(t *testing.T) *Agent {
	t.Helper()
	db := dbtest.Open(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tenant := models.Tenant{StoreName: "Warung Maju", UserID: "u1"}
	db.Create(&tenant)
	at := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	db.Create(&models.Transaction{TenantID: tenant.ID, Type: models.TransactionIncome, Amount: decimal.NewFromInt(25000), TransactionDate: at})
	db.Create(&models.Transaction{TenantID: tenant.ID, Type: models.TransactionExpense, Amount: decimal.NewFromInt(5000), TransactionDate: at.AddDate(0, 0, -1)})

	return NewAgent("unused", cashflow.NewService(db, time.UTC, 4, logger), visitors.NewService(db, time.UTC))
}

func TestCashflowSummaryTool(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()

	all, err := a.executeTool(ctx, "get_cashflow_summary", map[string]any{})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all["net_cash"] != "20000" || all["net_cash_formatted"] != "Rp 20.000" {
		t.Fatalf("unexpected summary %v", all)
	}

	day, err := a.executeTool(ctx, "get_cashflow_summary", map[string]any{"tenant_id": float64(1), "date": "2025-06-10"})
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if day["total_expense"] != "0" || day["total_income"] != "25000" {
		t.Fatalf("unexpected day summary %v", day)
	}

	if _, err := a.executeTool(ctx, "get_cashflow_summary", map[string]any{"date": "10/06/2025"}); err == nil {
		t.Fatalf("bad date must fail")
	}
}

func TestListTenantsAndVisitorsTools(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()

	res, err := a.executeTool(ctx, "list_tenants", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	tenants := res["tenants"].([]map[string]any)
	if len(tenants) != 1 || tenants[0]["store_name"] != "Warung Maju" {
		t.Fatalf("unexpected tenants %v", tenants)
	}

	counts, err := a.executeTool(ctx, "get_visitor_counts", nil)
	if err != nil || counts["total"] != int64(0) {
		t.Fatalf("counts %v err %v", counts, err)
	}

	if _, err := a.executeTool(ctx, "drop_tables", nil); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestPrintResponseHandlesEmpty(t *testing.T) {
	if got := printResponse(&genai.GenerateContentResponse{}); got != "I completed the action." {
		t.Fatalf("got %q", got)
	}
	if _, ok := firstCall(nil); ok {
		t.Fatalf("nil response has no call")
	}
}
