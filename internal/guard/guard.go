// Package guard decides whether a caller may see a role-gated view.
package guard

import (
	"sync"

	"go-cashflow/internal/models"
)

type Action uint8

const (
	// Verify means resolution is still in flight; show a neutral state and do not navigate.
	Verify Action = iota
	Allow
	Redirect
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "verify"
}

// State is the input the guard reacts to.
type State struct {
	UserID  string
	Role    models.Role
	Loading bool
}

type Decision struct {
	Action Action
	Target string
}

// Evaluate is the pure guard rule. An unresolved role is treated like a
// missing user: no access, back to login.
func Evaluate(s State, required models.Role) Decision {
	if s.Loading {
		return Decision{Action: Verify}
	}
	if s.UserID == "" || s.Role == models.RoleNone {
		return Decision{Action: Redirect, Target: models.LoginPath}
	}
	if s.Role != required {
		return Decision{Action: Redirect, Target: s.Role.Home()}
	}
	return Decision{Action: Allow}
}

// Guard remembers the last input so repeated evaluations with unchanged
// state do not trigger navigation again.
type Guard struct {
	required models.Role

	mu       sync.Mutex
	seen     bool
	last     State
	decision Decision
}

func New(required models.Role) *Guard {
	return &Guard{required: required}
}

// Update evaluates s and reports whether the decision is new.
func (g *Guard) Update(s State) (Decision, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen && g.last == s {
		return g.decision, false
	}
	d := Evaluate(s, g.required)
	changed := !g.seen || d != g.decision
	g.seen = true
	g.last = s
	g.decision = d
	return d, changed
}
