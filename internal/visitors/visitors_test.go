package visitors

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-cashflow/internal/database/dbtest"
)

func TestCountsWithNoArrivalsToday(t *testing.T) {
	s := NewService(dbtest.Open(t), time.UTC)
	now := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.AddDate(0, 0, -1) }
	if _, err := s.Record(context.Background(), "ticket-1"); err != nil {
		t.Fatalf("record: %v", err)
	}

	s.now = func() time.Time { return now }
	c, err := s.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Today != 0 || c.Total != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}

	if _, err := s.Record(context.Background(), "ticket-2"); err != nil {
		t.Fatalf("record: %v", err)
	}
	c, _ = s.Counts(context.Background())
	if c.Today != 1 || c.Total != 2 {
		t.Fatalf("unexpected counts %+v", c)
	}
}

func TestRecordRejectsEmptyPayload(t *testing.T) {
	s := NewService(dbtest.Open(t), time.UTC)
	if _, err := s.Record(context.Background(), "   "); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}
