package cashflow

import (
	"testing"

	"go-cashflow/internal/models"

	"github.com/shopspring/decimal"
)

func tx(kind models.TransactionType, amount int64) models.Transaction {
	return models.Transaction{Type: kind, Amount: decimal.NewFromInt(amount)}
}

func TestSummarizeEmptyIsZero(t *testing.T) {
	s := Summarize(nil)
	if !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() || !s.NetCash.IsZero() {
		t.Fatalf("empty set must be all zero, got %+v", s)
	}
}

func TestSummarizeNet(t *testing.T) {
	s := Summarize([]models.Transaction{
		tx(models.TransactionIncome, 25000),
		tx(models.TransactionIncome, 5000),
		tx(models.TransactionExpense, 7500),
	})
	if !s.TotalIncome.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("income = %s", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(decimal.NewFromInt(7500)) {
		t.Fatalf("expense = %s", s.TotalExpense)
	}
	if !s.NetCash.Equal(s.TotalIncome.Sub(s.TotalExpense)) {
		t.Fatalf("net = %s", s.NetCash)
	}
}

func TestApplyMatchesRecompute(t *testing.T) {
	base := []models.Transaction{
		tx(models.TransactionIncome, 1000),
		tx(models.TransactionExpense, 300),
	}
	before := Summarize(base)
	for _, next := range []models.Transaction{
		tx(models.TransactionIncome, 450),
		tx(models.TransactionExpense, 2000),
	} {
		got := before.Apply(next)
		want := Summarize(append(append([]models.Transaction{}, base...), next))
		if !got.NetCash.Equal(want.NetCash) {
			t.Fatalf("apply %v: net %s, want %s", next.Type, got.NetCash, want.NetCash)
		}
		delta := next.Amount
		if next.Type == models.TransactionExpense {
			delta = delta.Neg()
		}
		if !got.NetCash.Equal(before.NetCash.Add(delta)) {
			t.Fatalf("net must move by the signed amount")
		}
	}
}
