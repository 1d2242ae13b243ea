package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

// authorizeMiddleware gates a route group on the composed predicates. The
// denial is mapped to its HTTP error before any handler (and thus any store
// mutation) runs.
func authorizeMiddleware(preds ...core.AccessPredicate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if dec := core.Authorize(getContextIdentity(ctx), preds...); !dec.Allowed {
				return httpError(dec)
			}
			return next(ctx)
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return authorizeMiddleware(core.RequireActive(), core.RequireRole(user.RoleAdmin))
}

// ownerOrAdmin evaluates resource ownership for an already authenticated
// request.
func ownerOrAdmin(ctx echo.Context, ownerID string) error {
	dec := core.Authorize(
		getContextIdentity(ctx),
		core.AnyOf(core.RequireOwner(ownerID), core.RequireRole(user.RoleAdmin)),
	)
	if !dec.Allowed {
		return httpError(dec)
	}
	return nil
}
