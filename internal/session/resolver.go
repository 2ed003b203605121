// Package session resolves who is calling and what role they hold.
// A missing or unreadable profile never grants a role.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-cashflow/internal/auth"
	"go-cashflow/internal/cache"
	"go-cashflow/internal/config"
	"go-cashflow/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const moduleName = "session"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
)

type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

// Event is broadcast to every subscriber when a session starts or ends.
type Event struct {
	Type       EventType
	UserID     string
	Role       models.Role
	RedirectTo string
}

// Session is the resolved caller. Role is RoleNone when no profile could be read.
type Session struct {
	User      models.User     `json:"user"`
	Profile   *models.Profile `json:"profile,omitempty"`
	Role      models.Role     `json:"role"`
	TokenID   string          `json:"-"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type Resolver struct {
	db         *gorm.DB
	tokens     *auth.TokenIssuer
	logger     logrus.FieldLogger
	profiles   cache.Cache
	profileTTL time.Duration

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

type Option func(*Resolver)

// WithProfileCache caches resolved profiles for ttl.
func WithProfileCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.profiles = c
		r.profileTTL = ttl
	}
}

func NewResolver(db *gorm.DB, tokens *auth.TokenIssuer, logger logrus.FieldLogger, opts ...Option) *Resolver {
	r := &Resolver{
		db:     db,
		tokens: tokens,
		logger: logger,
		subs:   make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SignIn checks credentials and issues a token. A user without a profile
// may sign in but holds no role.
func (r *Resolver) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	sess := &Session{User: user}
	r.resolveRole(ctx, sess)

	token, claims, err := r.tokens.GenerateToken(user.ID, sess.Role.String())
	if err != nil {
		return "", nil, err
	}
	sess.TokenID = claims.ID
	sess.ExpiresAt = claims.ExpiresAt.Time

	r.emit(Event{Type: SignedIn, UserID: user.ID, Role: sess.Role, RedirectTo: sess.Role.Home()})
	return token, sess, nil
}

// Session resolves a bearer token to the current caller.
func (r *Resolver) Session(ctx context.Context, token string) (*Session, error) {
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrNoSession
	}

	var revoked int64
	if err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("token_id = ?", claims.ID).Count(&revoked).Error; err != nil {
		return nil, err
	}
	if revoked > 0 {
		return nil, ErrNoSession
	}

	var user models.User
	err = r.db.WithContext(ctx).Where("id = ?", claims.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{User: user, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	r.resolveRole(ctx, sess)
	return sess, nil
}

func (r *Resolver) resolveRole(ctx context.Context, sess *Session) {
	profile, err := r.ResolveProfile(ctx, sess.User.ID)
	switch {
	case err != nil:
		config.LogError(r.logger, moduleName, "resolveRole", "profile lookup failed", sess.User.ID, err)
	case profile == nil:
		r.logger.WithField("user_id", sess.User.ID).Warn("no profile for user, role unresolved")
	default:
		sess.Profile = profile
		sess.Role = profile.Role
		sess.User.Profile = profile
	}
}

// ResolveProfile returns the profile for userID, or nil when none exists.
func (r *Resolver) ResolveProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := profileKey(userID)
	var cached models.Profile
	if ok, err := cache.GetJSON(ctx, r.profiles, key, &cached); err == nil && ok {
		return &cached, nil
	}

	var profile models.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if err := cache.SetJSON(ctx, r.profiles, key, profile, r.profileTTL); err != nil {
		r.logger.WithField("user_id", userID).Warn("profile cache write failed: " + err.Error())
	}
	return &profile, nil
}

// SignOut revokes the token and tells every subscriber to go to the login view.
func (r *Resolver) SignOut(ctx context.Context, token string) error {
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return ErrNoSession
	}

	rev := models.RevokedToken{TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rev).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if r.profiles != nil {
		_ = r.profiles.Delete(ctx, profileKey(claims.UserID))
	}

	r.emit(Event{Type: SignedOut, UserID: claims.UserID, RedirectTo: models.LoginPath})
	return nil
}

// PurgeRevoked drops revocations for tokens that have expired anyway.
func (r *Resolver) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}

// Subscribe registers fn for session events and returns its cancel func.
func (r *Resolver) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

func (r *Resolver) emit(ev Event) {
	r.mu.RLock()
	fns := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func profileKey(userID string) string {
	return "profile:" + userID
}
