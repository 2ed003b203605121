package cashflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-cashflow/internal/cache"
	"go-cashflow/internal/config"
	"go-cashflow/internal/database"
	"go-cashflow/internal/events"
	"go-cashflow/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const moduleName = "cashflow"

var ErrPageOutOfRange = errors.New("page out of range")

// Scope selects the ledger entries a summary covers. TenantID zero means all tenants.
type Scope struct {
	TenantID uint
	Range    *database.TimeRange
}

type DailySummary struct {
	Date string `json:"date"`
	Summary
	TotalSalesCount int64 `json:"total_sales_count"`
}

type TenantOverview struct {
	models.Tenant
	Cashflow      *Summary `json:"cashflow,omitempty"`
	CashflowError string   `json:"cashflow_error,omitempty"`
}

type LedgerPage struct {
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	TotalCount int64                `json:"total_count"`
	Entries    []models.Transaction `json:"entries"`
}

type Service struct {
	db       *gorm.DB
	loc      *time.Location
	pageSize int
	logger   logrus.FieldLogger
	now      func() time.Time

	cache    cache.Cache
	cacheTTL time.Duration
}

type Option func(*Service)

// WithCache caches summaries until the tenant's data changes or ttl passes.
// Summary keys embed a per-tenant generation stored in c itself, so every
// instance sharing c sees an invalidation at once.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewService(db *gorm.DB, loc *time.Location, pageSize int, logger logrus.FieldLogger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if pageSize <= 0 {
		pageSize = 4
	}
	s := &Service{
		db:       db,
		loc:      loc,
		pageSize: pageSize,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) PageSize() int { return s.pageSize }

func (s *Service) Location() *time.Location { return s.loc }

// Today is the half-open local-day range containing now.
func (s *Service) Today() database.TimeRange {
	return database.DayRange(s.now(), s.loc)
}

// Totals fetches every entry in scope and reduces it.
func (s *Service) Totals(ctx context.Context, scope Scope) (Summary, error) {
	key, err := s.cacheKey(ctx, scope)
	if err != nil {
		s.logger.WithField("tenant_id", scope.TenantID).Warn("summary cache unavailable: " + err.Error())
	}
	var cached Summary
	if key != "" {
		if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var entries []models.Transaction
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("type", "amount").
		Scopes(database.TenantScope(scope.TenantID))
	if scope.Range != nil {
		q = q.Scopes(scope.Range.Scope("transaction_date"))
	}
	if err := q.Find(&entries).Error; err != nil {
		return Summary{}, fmt.Errorf("fetch transactions: %w", err)
	}

	sum := Summarize(entries)
	if key != "" {
		if err := cache.SetJSON(ctx, s.cache, key, sum, s.cacheTTL); err != nil {
			s.logger.WithField("key", key).Warn("summary cache write failed: " + err.Error())
		}
	}
	return sum, nil
}

// Daily is today's tenant dashboard: today's totals plus the number of sales.
func (s *Service) Daily(ctx context.Context, tenantID uint) (DailySummary, error) {
	day := s.Today()
	sum, err := s.Totals(ctx, Scope{TenantID: tenantID, Range: &day})
	if err != nil {
		return DailySummary{}, err
	}
	count, err := database.CountSales(ctx, s.db, tenantID, day)
	if err != nil {
		return DailySummary{}, fmt.Errorf("count sales: %w", err)
	}
	return DailySummary{
		Date:            day.From.In(s.loc).Format("2006-01-02"),
		Summary:         sum,
		TotalSalesCount: count,
	}, nil
}

// TenantOverviews lists tenants newest first, each with its all-time
// cashflow. Per-tenant queries run concurrently; one failing only marks its row.
func (s *Service) TenantOverviews(ctx context.Context) ([]TenantOverview, error) {
	var tenants []models.Tenant
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	out := make([]TenantOverview, len(tenants))
	var g errgroup.Group
	g.SetLimit(8)
	for i, t := range tenants {
		out[i].Tenant = t
		g.Go(func() error {
			sum, err := s.Totals(ctx, Scope{TenantID: t.ID})
			if err != nil {
				config.LogError(s.logger, moduleName, "TenantOverviews", "tenant cashflow", t.ID, err)
				out[i].CashflowError = err.Error()
				return nil
			}
			out[i].Cashflow = &sum
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

// Ledger returns one page of a tenant's entries, newest first. The count
// runs first; a page outside [1, totalPages] fetches nothing.
func (s *Service) Ledger(ctx context.Context, tenantID uint, page int) (LedgerPage, error) {
	count, err := database.CountTransactions(ctx, s.db, tenantID)
	if err != nil {
		return LedgerPage{}, fmt.Errorf("count transactions: %w", err)
	}
	result := LedgerPage{
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: TotalPages(count, s.pageSize),
		TotalCount: count,
		Entries:    []models.Transaction{},
	}
	pager := NewPager()
	pager.SetTotal(result.TotalPages)
	if !pager.Go(page) {
		return result, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, result.TotalPages)
	}
	if count == 0 {
		return result, nil
	}

	err = s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Order("transaction_date DESC").Order("id DESC").
		Offset((page - 1) * s.pageSize).Limit(s.pageSize).
		Find(&result.Entries).Error
	if err != nil {
		return LedgerPage{}, fmt.Errorf("fetch ledger page: %w", err)
	}
	return result, nil
}

// Entries is the full ledger for a tenant in ledger order.
func (s *Service) Entries(ctx context.Context, tenantID uint) ([]models.Transaction, error) {
	var entries []models.Transaction
	err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Order("transaction_date DESC").Order("id DESC").
		Find(&entries).Error
	return entries, err
}

// Invalidate drops cached summaries for the tenant and for the all-tenant scope.
func (s *Service) Invalidate(ctx context.Context, tenantID uint) error {
	if s.cache == nil {
		return nil
	}
	for _, id := range []uint{tenantID, 0} {
		if err := s.cache.Set(ctx, generationKey(id), []byte(uuid.NewString()), 0); err != nil {
			return fmt.Errorf("bump cache generation for tenant %d: %w", id, err)
		}
	}
	return nil
}

// Listen invalidates the cache whenever tenant data changes.
func (s *Service) Listen(bus *events.Bus) func() {
	return bus.Subscribe(func(ev events.TenantDataChanged) {
		if ev.Kind == events.ProductsChanged {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Invalidate(ctx, ev.TenantID); err != nil {
			config.LogError(s.logger, moduleName, "Listen", "invalidate summaries", ev, err)
		}
	})
}

func generationKey(tenantID uint) string {
	return "cashflow:gen:" + strconv.FormatUint(uint64(tenantID), 10)
}

// generation returns the tenant's current cache generation. A missing one is
// replaced by a fresh token, never by an earlier value.
func (s *Service) generation(ctx context.Context, tenantID uint) (string, error) {
	key := generationKey(tenantID)
	gen, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if ok {
		return string(gen), nil
	}
	fresh := uuid.NewString()
	if err := s.cache.Set(ctx, key, []byte(fresh), 0); err != nil {
		return "", err
	}
	return fresh, nil
}

// cacheKey is empty when caching is off or the generation cannot be read.
func (s *Service) cacheKey(ctx context.Context, scope Scope) (string, error) {
	if s.cache == nil {
		return "", nil
	}
	gen, err := s.generation(ctx, scope.TenantID)
	if err != nil {
		return "", err
	}
	key := "cashflow:" + strconv.FormatUint(uint64(scope.TenantID), 10) + ":" + gen
	if scope.Range != nil {
		key += ":" + strconv.FormatInt(scope.Range.From.Unix(), 10) + "-" + strconv.FormatInt(scope.Range.To.Unix(), 10)
	}
	return key, nil
}
