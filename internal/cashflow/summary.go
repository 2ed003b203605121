// Package cashflow reduces ledger entries into income, expense and net
// figures and serves the paginated ledger.
package cashflow

import (
	"go-cashflow/internal/models"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetCash      decimal.Decimal `json:"net_cash"`
}

// Summarize folds entries into totals. No entries means all zeros.
func Summarize(entries []models.Transaction) Summary {
	sum := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero, NetCash: decimal.Zero}
	for _, e := range entries {
		sum = sum.Apply(e)
	}
	return sum
}

// Apply returns the summary after one more entry.
func (s Summary) Apply(e models.Transaction) Summary {
	switch e.Type {
	case models.TransactionIncome:
		s.TotalIncome = s.TotalIncome.Add(e.Amount)
	case models.TransactionExpense:
		s.TotalExpense = s.TotalExpense.Add(e.Amount)
	}
	s.NetCash = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
