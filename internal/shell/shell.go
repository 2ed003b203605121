// Package shell is the per-role tab navigation. Entering a tab runs its
// loader; nothing is cached across tab switches.
package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go-cashflow/internal/models"
)

type Tab string

const (
	TabSummary      Tab = "summary"
	TabTenants      Tab = "tenants"
	TabGlobalReport Tab = "global_report"

	TabDashboard Tab = "dashboard"
	TabProducts  Tab = "products"
	TabQuickSale Tab = "quick_sale"
	TabReports   Tab = "reports"
)

var (
	ErrNoRole       = errors.New("no shell for an unresolved role")
	ErrTabNotInRole = errors.New("tab not available for role")
	ErrNoLoader     = errors.New("no loader for tab")
)

var tabsByRole = map[models.Role][]Tab{
	models.RoleAdmin:  {TabSummary, TabTenants, TabGlobalReport},
	models.RoleTenant: {TabDashboard, TabProducts, TabQuickSale, TabReports},
}

// Tabs lists the role's tabs in display order.
func Tabs(role models.Role) []Tab {
	return slices.Clone(tabsByRole[role])
}

// Allowed reports whether tab belongs to role's shell.
func Allowed(role models.Role, tab Tab) bool {
	return slices.Contains(tabsByRole[role], tab)
}

// Loader fetches the data a tab shows.
type Loader func(ctx context.Context) (any, error)

type Shell struct {
	role models.Role

	mu     sync.Mutex
	active Tab
}

// New mounts the role's shell on its first tab.
func New(role models.Role) (*Shell, error) {
	tabs := tabsByRole[role]
	if len(tabs) == 0 {
		return nil, ErrNoRole
	}
	return &Shell{role: role, active: tabs[0]}, nil
}

func (s *Shell) Role() models.Role { return s.role }

func (s *Shell) Active() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select makes tab active and reports whether it was entered, i.e. was not
// already the active tab.
func (s *Shell) Select(tab Tab) (bool, error) {
	if !Allowed(s.role, tab) {
		return false, fmt.Errorf("%w: %s", ErrTabNotInRole, tab)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == tab {
		return false, nil
	}
	s.active = tab
	return true, nil
}

// Enter selects tab and runs its loader. Every entry fetches afresh.
func (s *Shell) Enter(ctx context.Context, tab Tab, loaders map[Tab]Loader) (any, error) {
	if _, err := s.Select(tab); err != nil {
		return nil, err
	}
	return Load(ctx, tab, loaders)
}

// Load runs the loader registered for tab.
func Load(ctx context.Context, tab Tab, loaders map[Tab]Loader) (any, error) {
	load, ok := loaders[tab]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, tab)
	}
	return load(ctx)
}
