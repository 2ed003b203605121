// Package pos holds the tenant write flows: catalogue edits, quick-sale
// checkout and expense entry. Each successful write publishes a
// tenant-data-changed event.
package pos

import (
	"time"

	"go-cashflow/internal/events"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const moduleName = "pos"

type Service struct {
	db        *gorm.DB
	publisher events.Publisher
	validate  *validator.Validate
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewService builds the write flows. publisher may be nil.
func NewService(db *gorm.DB, publisher events.Publisher, logger logrus.FieldLogger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) publish(tenantID uint, kind events.Kind) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.TenantDataChanged{TenantID: tenantID, Kind: kind, At: s.now().UTC()})
}
