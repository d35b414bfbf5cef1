package http

import (
	"net/http"
	"slices"
	"strings"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the upstream gateway.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

const identityKey = "identity"

// Role is the caller's role as asserted by the gateway.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole returns the role named by s, ignoring case.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return role, true
	default:
		return "", false
	}
}

// Identity is the authenticated caller.
type Identity struct {
	UserID kernel.UUID
	Role   Role
}

// Authenticate rejects requests without a valid identity with 401 and stores the
// identity in the echo context otherwise.
func Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header

		userID, err := kernel.UUIDFromString(header.Get(HeaderUserID))
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, Error{
				Code:    http.StatusUnauthorized,
				Message: "missing or malformed " + HeaderUserID + " header",
			})
		}

		role, ok := ParseRole(header.Get(HeaderUserRole))
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, Error{
				Code:    http.StatusUnauthorized,
				Message: "missing or unknown " + HeaderUserRole + " header",
			})
		}

		ctx.Set(identityKey, Identity{UserID: userID, Role: role})
		return next(ctx)
	}
}

// RequireRole answers 403 unless the caller has one of roles. It must run after
// Authenticate.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !slices.Contains(roles, callerOf(ctx).Role) {
				return ctx.JSON(http.StatusForbidden, Error{
					Code:    http.StatusForbidden,
					Message: "role is not allowed to perform this operation",
				})
			}
			return next(ctx)
		}
	}
}

func callerOf(ctx echo.Context) Identity {
	identity, _ := ctx.Get(identityKey).(Identity)
	return identity
}
