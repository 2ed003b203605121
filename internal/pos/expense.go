package pos

import (
	"context"
	"fmt"
	"strings"

	"go-cashflow/internal/events"
	"go-cashflow/internal/models"

	"github.com/shopspring/decimal"
)

const defaultExpenseDescription = "Unidentified expense"

type ExpenseInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=512"`
}

// RecordExpense validates before touching storage, then writes one expense entry.
func (s *Service) RecordExpense(ctx context.Context, tenantID uint, in ExpenseInput) (*models.Transaction, error) {
	if tenantID == 0 {
		return nil, ErrTenantUnresolved
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid expense: %s", err)
	}
	if in.Description == "" {
		in.Description = defaultExpenseDescription
	}

	entry := models.Transaction{
		TenantID:        tenantID,
		Amount:          in.Amount,
		Type:            models.TransactionExpense,
		Description:     in.Description,
		TransactionDate: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("record expense: %w", err)
	}
	s.publish(tenantID, events.ExpenseRecorded)
	return &entry, nil
}
