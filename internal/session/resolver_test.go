package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go-cashflow/internal/auth"
	"go-cashflow/internal/database/dbtest"
	"go-cashflow/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seedUser(t *testing.T, db *gorm.DB, id, email, password string, role models.Role) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := db.Create(&models.User{ID: id, Email: email, PasswordHash: hash}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if role != models.RoleNone {
		if err := db.Create(&models.Profile{UserID: id, Name: "Shop " + id, Role: role}).Error; err != nil {
			t.Fatalf("create profile: %v", err)
		}
	}
}

func newResolver(t *testing.T) (*Resolver, *gorm.DB) {
	db := dbtest.Open(t)
	return NewResolver(db, auth.NewTokenIssuer("test", time.Hour), quietLogger()), db
}

func TestSignInResolvesRole(t *testing.T) {
	r, db := newResolver(t)
	seedUser(t, db, "u1", "owner@shop.test", "secret123", models.RoleTenant)

	var events []Event
	r.Subscribe(func(ev Event) { events = append(events, ev) })

	token, sess, err := r.SignIn(context.Background(), " Owner@Shop.test ", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if sess.Role != models.RoleTenant || token == "" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if len(events) != 1 || events[0].Type != SignedIn || events[0].RedirectTo != models.TenantDashboardPath {
		t.Fatalf("unexpected events %+v", events)
	}

	again, err := r.Session(context.Background(), token)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if again.User.ID != "u1" || again.Role != models.RoleTenant {
		t.Fatalf("unexpected resolved session %+v", again)
	}
}

func TestSignInRejectsBadPassword(t *testing.T) {
	r, db := newResolver(t)
	seedUser(t, db, "u1", "owner@shop.test", "secret123", models.RoleTenant)

	if _, _, err := r.SignIn(context.Background(), "owner@shop.test", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := r.SignIn(context.Background(), "ghost@shop.test", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestMissingProfileFailsClosed(t *testing.T) {
	r, db := newResolver(t)
	seedUser(t, db, "u2", "nobody@shop.test", "secret123", models.RoleNone)

	token, sess, err := r.SignIn(context.Background(), "nobody@shop.test", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if sess.Role != models.RoleNone || sess.Profile != nil {
		t.Fatalf("missing profile must not yield a role: %+v", sess)
	}

	resolved, err := r.Session(context.Background(), token)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if resolved.Role != models.RoleNone {
		t.Fatalf("role = %v, want none", resolved.Role)
	}
}

func TestSignOutRevokesAndBroadcasts(t *testing.T) {
	r, db := newResolver(t)
	seedUser(t, db, "u1", "owner@shop.test", "secret123", models.RoleAdmin)
	token, _, err := r.SignIn(context.Background(), "owner@shop.test", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var redirected string
	cancel := r.Subscribe(func(ev Event) {
		if ev.Type == SignedOut {
			redirected = ev.RedirectTo
		}
	})
	defer cancel()

	if err := r.SignOut(context.Background(), token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if redirected != models.LoginPath {
		t.Fatalf("subscribers must be sent to login, got %q", redirected)
	}
	if _, err := r.Session(context.Background(), token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("revoked token must not resolve, got %v", err)
	}
	// second sign-out of the same token is harmless
	if err := r.SignOut(context.Background(), token); err != nil {
		t.Fatalf("repeat sign out: %v", err)
	}
}

func TestPurgeRevoked(t *testing.T) {
	r, db := newResolver(t)
	now := time.Now().UTC()
	db.Create(&models.RevokedToken{TokenID: "old", ExpiresAt: now.Add(-time.Hour)})
	db.Create(&models.RevokedToken{TokenID: "new", ExpiresAt: now.Add(time.Hour)})

	n, err := r.PurgeRevoked(context.Background(), now)
	if err != nil || n != 1 {
		t.Fatalf("purged %d err %v", n, err)
	}
}

func TestUnknownTokenHasNoSession(t *testing.T) {
	r, _ := newResolver(t)
	if _, err := r.Session(context.Background(), "garbage"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
