// Package tenancy maps an owning user to its store's tenant id.
package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-cashflow/internal/config"
	"go-cashflow/internal/models"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const moduleName = "tenancy"

var ErrTenantUnresolved = errors.New("tenant could not be resolved")

type Provisioner struct {
	db     *gorm.DB
	locker *redislock.Client
	logger logrus.FieldLogger
}

// NewProvisioner builds a provisioner. locker may be nil; the unique index
// on tenants.user_id is what keeps one tenant per user.
func NewProvisioner(db *gorm.DB, locker *redislock.Client, logger logrus.FieldLogger) *Provisioner {
	return &Provisioner{db: db, locker: locker, logger: logger}
}

// EnsureTenant returns the tenant owned by userID, creating it on first use.
// A concurrent creator losing the insert race re-reads the winner's row.
func (p *Provisioner) EnsureTenant(ctx context.Context, userID, storeName string) (uint, error) {
	if userID == "" {
		return 0, ErrTenantUnresolved
	}

	if id, ok, err := p.find(ctx, userID); err != nil || ok {
		return id, err
	}

	if lock := p.obtainLock(ctx, userID); lock != nil {
		defer lock.Release(context.Background())
	}

	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		storeName = "Store " + userID
	}
	tenant := models.Tenant{UserID: userID, StoreName: storeName}
	createErr := p.db.WithContext(ctx).Create(&tenant).Error
	if createErr == nil {
		p.logger.WithFields(logrus.Fields{"user_id": userID, "tenant_id": tenant.ID}).Info("tenant provisioned")
		return tenant.ID, nil
	}

	// Another request may have created it between find and insert.
	id, ok, err := p.find(ctx, userID)
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}
	config.LogError(p.logger, moduleName, "EnsureTenant", "create tenant", userID, createErr)
	return 0, fmt.Errorf("create tenant: %w", createErr)
}

func (p *Provisioner) find(ctx context.Context, userID string) (uint, bool, error) {
	var tenant models.Tenant
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).Take(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find tenant: %w", err)
	}
	return tenant.ID, true, nil
}

// obtainLock is best-effort: without Redis, or when the lock is busy, the
// insert still runs and the unique index settles the race.
func (p *Provisioner) obtainLock(ctx context.Context, userID string) *redislock.Lock {
	if p.locker == nil {
		return nil
	}
	lock, err := p.locker.Obtain(ctx, "lock:tenant-provision:"+userID, 10*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		p.logger.WithField("user_id", userID).Warn("could not obtain provisioning lock; proceeding without it: " + err.Error())
		return nil
	}
	return lock
}
