package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-cashflow/internal/events"
	"go-cashflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name  string          `json:"name" validate:"required,max=255"`
	Price decimal.Decimal `json:"price"`
}

// ProductPatch updates only the fields that are set.
type ProductPatch struct {
	Name  *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Price *decimal.Decimal `json:"price"`
}

// Products lists the tenant's catalogue by name.
func (s *Service) Products(ctx context.Context, tenantID uint) ([]models.Product, error) {
	if tenantID == 0 {
		return nil, ErrTenantUnresolved
	}
	products := []models.Product{}
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("name ASC").Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CreateProduct adds a product and returns it with the refreshed catalogue.
func (s *Service) CreateProduct(ctx context.Context, tenantID uint, in ProductInput) (*models.Product, []models.Product, error) {
	if tenantID == 0 {
		return nil, nil, ErrTenantUnresolved
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidProduct, err)
	}
	if in.Price.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}

	product := models.Product{TenantID: tenantID, Name: in.Name, Price: in.Price}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, nil, fmt.Errorf("create product: %w", err)
	}
	s.publish(tenantID, events.ProductsChanged)

	list, err := s.Products(ctx, tenantID)
	return &product, list, err
}

// UpdateProduct applies patch to one of the tenant's products.
func (s *Service) UpdateProduct(ctx context.Context, tenantID, productID uint, patch ProductPatch) (*models.Product, []models.Product, error) {
	if tenantID == 0 {
		return nil, nil, ErrTenantUnresolved
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidProduct, err)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}

	var product models.Product
	err := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrProductNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find product: %w", err)
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
		product.Price = *patch.Price
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("tenant_id = ? AND id = ?", tenantID, productID).
			Updates(updates).Error; err != nil {
			return nil, nil, fmt.Errorf("update product: %w", err)
		}
		s.publish(tenantID, events.ProductsChanged)
	}

	list, err := s.Products(ctx, tenantID)
	return &product, list, err
}

// DeleteProduct removes one of the tenant's products and returns the refreshed catalogue.
func (s *Service) DeleteProduct(ctx context.Context, tenantID, productID uint) ([]models.Product, error) {
	if tenantID == 0 {
		return nil, ErrTenantUnresolved
	}
	res := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, productID).Delete(&models.Product{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	s.publish(tenantID, events.ProductsChanged)
	return s.Products(ctx, tenantID)
}
