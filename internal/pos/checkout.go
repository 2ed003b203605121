package pos

import (
	"context"
	"fmt"
	"strings"

	"go-cashflow/internal/config"
	"go-cashflow/internal/events"
	"go-cashflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Receipt is what a successful checkout recorded.
type Receipt struct {
	Sale        models.Sale        `json:"sale"`
	Transaction models.Transaction `json:"transaction"`
}

// Checkout records the cart as one sale, its items and one income entry.
// The three writes share a database transaction: either all land or none do.
// Prices come from the catalogue at checkout time. The cart is cleared only
// after the commit.
func (s *Service) Checkout(ctx context.Context, tenantID uint, cart *Cart) (*Receipt, error) {
	if tenantID == 0 {
		return nil, ErrTenantUnresolved
	}
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, l.ProductID)
		}
		ids = append(ids, l.ProductID)
	}

	var receipt Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&products).Error; err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		total := decimal.Zero
		names := make([]string, 0, len(lines))
		items := make([]models.SaleItem, 0, len(lines))
		for _, l := range lines {
			p, ok := byID[l.ProductID]
			if !ok {
				return fmt.Errorf("%w: %d", ErrProductNotFound, l.ProductID)
			}
			subtotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
			total = total.Add(subtotal)
			names = append(names, p.Name)
			items = append(items, models.SaleItem{
				ProductID:    p.ID,
				Quantity:     l.Quantity,
				PricePerUnit: p.Price,
				Subtotal:     subtotal,
			})
		}

		now := s.now().UTC()
		sale := models.Sale{
			TenantID:        tenantID,
			TotalAmount:     total,
			TransactionDate: now,
			Notes:           "Quick sale: " + strings.Join(names, ", "),
		}
		if err := tx.Omit(clause.Associations).Create(&sale).Error; err != nil {
			return fmt.Errorf("record sale: %w", err)
		}

		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("record sale items: %w", err)
		}

		saleID := sale.ID
		entry := models.Transaction{
			TenantID:        tenantID,
			Amount:          total,
			Type:            models.TransactionIncome,
			Description:     fmt.Sprintf("Income from sale #%d (%d items)", sale.ID, len(items)),
			TransactionDate: now,
			SaleID:          &saleID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("record income: %w", err)
		}

		sale.Items = items
		receipt = Receipt{Sale: sale, Transaction: entry}
		return nil
	})
	if err != nil {
		config.LogError(s.logger, moduleName, "Checkout", "checkout rolled back", tenantID, err)
		return nil, err
	}

	cart.Clear()
	s.publish(tenantID, events.SaleRecorded)
	return &receipt, nil
}
