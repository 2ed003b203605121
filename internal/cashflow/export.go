package cashflow

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

// ExportLedger writes the tenant's full ledger and its totals as XLSX.
func (s *Service) ExportLedger(ctx context.Context, tenantID uint, w io.Writer) error {
	entries, err := s.Entries(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	sum := Summarize(entries)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return err
	}

	headers := []any{"Date", "Type", "Description", "Amount", "Sale"}
	if err := f.SetSheetRow(ledgerSheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, e := range entries {
		var sale any
		if e.SaleID != nil {
			sale = *e.SaleID
		}
		values := []any{
			e.TransactionDate.In(s.loc).Format("2006-01-02 15:04"),
			string(e.Type),
			e.Description,
			e.Amount.InexactFloat64(),
			sale,
		}
		if err := f.SetSheetRow(ledgerSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	row++
	for _, total := range []struct {
		label string
		value float64
	}{
		{"Total income", sum.TotalIncome.InexactFloat64()},
		{"Total expense", sum.TotalExpense.InexactFloat64()},
		{"Net cash", sum.NetCash.InexactFloat64()},
	} {
		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("C%d", row), total.label); err != nil {
			return err
		}
		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", row), total.value); err != nil {
			return err
		}
		row++
	}

	return f.Write(w)
}
