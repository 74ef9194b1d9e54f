package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const (
	RoleUser = "ROLE_USER"
	RoleCook = "ROLE_COOK"
)

// RoleSet is the set of capability tags granted to a user. It is stored as a
// comma-delimited text column but behaves as a set: Add never duplicates.
type RoleSet []string

func DefaultRoles() RoleSet {
	return RoleSet{RoleUser}
}

func (r RoleSet) Has(role string) bool {
	for _, got := range r {
		if got == role {
			return true
		}
	}
	return false
}

// Add returns the set with role included, without duplicating it.
func (r RoleSet) Add(role string) RoleSet {
	if r.Has(role) {
		return r
	}
	return append(r, role)
}

func (r RoleSet) Value() (driver.Value, error) {
	return strings.Join(r, ","), nil
}

func (r *RoleSet) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		*r = parseRoles(v)
		return nil
	case []byte:
		*r = parseRoles(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into RoleSet", value)
	}
}

func parseRoles(s string) RoleSet {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	set := make(RoleSet, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			set = set.Add(p)
		}
	}
	return set
}

// StringList is a comma-delimited text column holding free-form tags,
// e.g. a cook's expertise list.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		*l = splitList(v)
		return nil
	case []byte:
		*l = splitList(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

func splitList(s string) StringList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
