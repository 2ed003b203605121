package shell

import (
	"context"
	"errors"
	"testing"

	"go-cashflow/internal/models"
)

func TestTabsPerRole(t *testing.T) {
	admin := Tabs(models.RoleAdmin)
	if len(admin) != 3 || admin[0] != TabSummary || admin[2] != TabGlobalReport {
		t.Fatalf("admin tabs %v", admin)
	}
	tenant := Tabs(models.RoleTenant)
	if len(tenant) != 4 || tenant[0] != TabDashboard || tenant[3] != TabReports {
		t.Fatalf("tenant tabs %v", tenant)
	}
	if len(Tabs(models.RoleNone)) != 0 {
		t.Fatalf("unresolved role has no tabs")
	}
}

func TestNewRequiresRole(t *testing.T) {
	if _, err := New(models.RoleNone); !errors.Is(err, ErrNoRole) {
		t.Fatalf("expected ErrNoRole, got %v", err)
	}
	s, err := New(models.RoleTenant)
	if err != nil || s.Active() != TabDashboard {
		t.Fatalf("tenant shell starts on dashboard: %v %v", s, err)
	}
}

func TestSelect(t *testing.T) {
	s, _ := New(models.RoleAdmin)

	entered, err := s.Select(TabTenants)
	if err != nil || !entered || s.Active() != TabTenants {
		t.Fatalf("select tenants: entered=%v err=%v", entered, err)
	}
	entered, err = s.Select(TabTenants)
	if err != nil || entered {
		t.Fatalf("reselecting the active tab is not an entry")
	}
	if _, err := s.Select(TabProducts); !errors.Is(err, ErrTabNotInRole) {
		t.Fatalf("admin cannot open tenant tabs, got %v", err)
	}
	if s.Active() != TabTenants {
		t.Fatalf("rejected select must not change the active tab")
	}
}

func TestEnterRefetchesEveryTime(t *testing.T) {
	s, _ := New(models.RoleTenant)
	calls := map[Tab]int{}
	loaders := map[Tab]Loader{}
	for _, tab := range Tabs(models.RoleTenant) {
		loaders[tab] = func(context.Context) (any, error) {
			calls[tab]++
			return string(tab), nil
		}
	}

	ctx := context.Background()
	for _, tab := range []Tab{TabProducts, TabReports, TabProducts} {
		got, err := s.Enter(ctx, tab, loaders)
		if err != nil || got != string(tab) {
			t.Fatalf("enter %s: %v %v", tab, got, err)
		}
	}
	if calls[TabProducts] != 2 || calls[TabReports] != 1 {
		t.Fatalf("unexpected loader calls %v", calls)
	}

	if _, err := Load(ctx, TabSummary, loaders); !errors.Is(err, ErrNoLoader) {
		t.Fatalf("expected ErrNoLoader, got %v", err)
	}
}
