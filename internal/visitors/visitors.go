// Package visitors records gate arrivals and serves the admin traffic counters.
package visitors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-cashflow/internal/database"
	"go-cashflow/internal/models"

	"gorm.io/gorm"
)

var ErrEmptyPayload = errors.New("qr code data is empty")

type Counts struct {
	Today int64 `json:"today"`
	Total int64 `json:"total"`
}

type Service struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc, now: time.Now}
}

// Record stores one arrival with the decoded QR payload.
func (s *Service) Record(ctx context.Context, payload string) (*models.Visitor, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	v := &models.Visitor{ArrivalTime: s.now().UTC(), QRCodeData: payload}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, fmt.Errorf("record visitor: %w", err)
	}
	return v, nil
}

// Counts returns today's arrivals in the local day and the all-time total.
// A day without arrivals is zero, not an error.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	day := database.DayRange(s.now(), s.loc)
	today, err := database.CountVisitors(ctx, s.db, &day)
	if err != nil {
		return Counts{}, fmt.Errorf("count today's visitors: %w", err)
	}
	total, err := database.CountVisitors(ctx, s.db, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("count visitors: %w", err)
	}
	return Counts{Today: today, Total: total}, nil
}
