package pos

import (
	"errors"

	"go-cashflow/internal/tenancy"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrProductNotFound  = errors.New("product not found")
	ErrTenantUnresolved = tenancy.ErrTenantUnresolved
)
