package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role is the closed set of roles a profile can carry. The zero value
// RoleNone means "not resolved" and never grants access.
type Role uint8

const (
	RoleNone Role = iota
	RoleAdmin
	RoleTenant
)

const (
	LoginPath           = "/login"
	AdminDashboardPath  = "/admin/dashboard"
	TenantDashboardPath = "/tenant/dashboard"
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "tenant":
		return RoleTenant, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleTenant:
		return "tenant"
	}
	return ""
}

// Home is the landing view for the role; an unresolved role lands on login.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return AdminDashboardPath
	case RoleTenant:
		return TenantDashboardPath
	}
	return LoginPath
}

func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleNone {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if r == RoleNone {
		return nil, fmt.Errorf("cannot store an unresolved role")
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*r = RoleNone
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
