package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the Postgres ENUM 'labeler_role'
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleResearcher Role = "researcher"
	RoleAnnotator  Role = "annotator"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// ValidRoles is the allow-list consulted by the role resolver.
var ValidRoles = map[Role]struct{}{
	RoleAdmin:      {},
	RoleManager:    {},
	RoleResearcher: {},
	RoleAnnotator:  {},
}

// ReadOnly reports whether the role can never mutate labeling data.
func (r Role) ReadOnly() bool {
	return r == RoleManager || r == RoleResearcher
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
