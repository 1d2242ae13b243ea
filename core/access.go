package core

import "time"

// Identity is the authenticated {id, email, role, active} tuple resolved from
// a session token. A nil *Identity means "anonymous".
type Identity struct {
	ID       string
	Email    string
	Role     string
	IsActive bool
}

type DenyReason string

const (
	DenyUnauthorized DenyReason = "unauthorized" // no identity present
	DenyForbidden    DenyReason = "forbidden"    // identity present, insufficient privilege
	DenyInvalidToken DenyReason = "invalid_token"
)

// AccessDecision is the outcome of the authorization gate: Allow, or Deny with
// a reason. Role-based and capability-token-based gating both produce it so
// handlers share one response contract.
type AccessDecision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() AccessDecision            { return AccessDecision{Allowed: true} }
func Deny(r DenyReason) AccessDecision { return AccessDecision{Reason: r} }

// AccessPredicate evaluates one authorization rule against an identity.
type AccessPredicate func(ident Identity) AccessDecision

// Authorize composes predicates; all must allow. An absent identity is denied
// before any predicate runs.
func Authorize(ident *Identity, preds ...AccessPredicate) AccessDecision {
	if ident == nil {
		return Deny(DenyUnauthorized)
	}
	for _, pred := range preds {
		if dec := pred(*ident); !dec.Allowed {
			return dec
		}
	}
	return Allow()
}

// AnyOf allows when at least one predicate allows; the last denial wins otherwise.
func AnyOf(preds ...AccessPredicate) AccessPredicate {
	return func(ident Identity) AccessDecision {
		dec := Deny(DenyForbidden)
		for _, pred := range preds {
			if dec = pred(ident); dec.Allowed {
				return dec
			}
		}
		return dec
	}
}

func RequireRole(role string) AccessPredicate {
	return func(ident Identity) AccessDecision {
		if ident.Role != role {
			return Deny(DenyForbidden)
		}
		return Allow()
	}
}

func RequireActive() AccessPredicate {
	return func(ident Identity) AccessDecision {
		if !ident.IsActive {
			return Deny(DenyForbidden)
		}
		return Allow()
	}
}

// RequireOwner gates resource-scoped operations on ownership of the resource.
func RequireOwner(ownerID string) AccessPredicate {
	return func(ident Identity) AccessDecision {
		if ownerID == "" || ident.ID != ownerID {
			return Deny(DenyForbidden)
		}
		return Allow()
	}
}

// AuthorizeCapabilityToken authorizes by possession of a single-use token:
// the token must have matched a record and its expiry must be strictly in the
// future. No identity is involved.
func AuthorizeCapabilityToken(expiresAt *time.Time, now time.Time) AccessDecision {
	if expiresAt == nil || !expiresAt.After(now) {
		return Deny(DenyInvalidToken)
	}
	return Allow()
}
