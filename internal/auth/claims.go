package auth

import "aerosafety/labelboard/internal/constants"

// UserClaims is the per-request identity resolved by the auth middleware.
type UserClaims interface {
	UserID() string
	Username() string
	Role() constants.Role
	IsSuperuser() bool
	Source() string
}

// JWTClaims backs claims parsed from a bearer token.
type JWTClaims struct {
	UserUUID      string
	UsernameValue string
	RoleValue     constants.Role
	Superuser     bool
}

func (c *JWTClaims) UserID() string        { return c.UserUUID }
func (c *JWTClaims) Username() string      { return c.UsernameValue }
func (c *JWTClaims) Role() constants.Role  { return c.RoleValue }
func (c *JWTClaims) IsSuperuser() bool     { return c.Superuser }
func (c *JWTClaims) Source() string        { return "JWT" }
