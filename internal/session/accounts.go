package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-cashflow/internal/auth"
	"go-cashflow/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidAccount  = errors.New("email and a password of at least 8 characters are required")
	ErrRoleUnspecified = errors.New("account role must be admin or tenant")
)

// CreateAccount registers a new user with its profile in one transaction.
func CreateAccount(ctx context.Context, db *gorm.DB, email, password, name string, role models.Role) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		return nil, ErrInvalidAccount
	}
	if role == models.RoleNone {
		return nil, ErrRoleUnspecified
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		profile := models.Profile{UserID: user.ID, Name: strings.TrimSpace(name), Role: role}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureAccount creates the account or resets its password, name and role.
func EnsureAccount(ctx context.Context, db *gorm.DB, email, password, name string, role models.Role) (*models.User, bool, error) {
	email = NormalizeEmail(email)
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err := CreateAccount(ctx, db, email, password, name, role)
		return user, true, err
	}
	if err != nil {
		return nil, false, err
	}
	if len(password) < 8 {
		return nil, false, ErrInvalidAccount
	}
	if role == models.RoleNone {
		return nil, false, ErrRoleUnspecified
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", existing.ID).Update("password_hash", hash).Error; err != nil {
			return err
		}
		profile := models.Profile{UserID: existing.ID, Name: strings.TrimSpace(name), Role: role}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role"}),
		}).Create(&profile).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("update account: %w", err)
	}
	existing.PasswordHash = hash
	return &existing, false, nil
}
