package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
)

// Caller is the authenticated identity extracted from a verified token. The
// role is the claim snapshot from issuance time, not a live lookup.
type Caller struct {
	ID   uuid.UUID
	Role model.Role
}

// Anonymous is the unauthenticated caller.
var Anonymous = Caller{}

// Authenticated reports whether the caller carries a verified identity.
func (c Caller) Authenticated() bool {
	return c.ID != uuid.Nil
}

// Action names an operation on an owned resource. Public reads and creates
// never reach the engine; they are allowed by the routing layer.
type Action string

const (
	ActionUpdateFarmer  Action = "farmer:update"
	ActionDeleteFarmer  Action = "farmer:delete"
	ActionUpdateProduct Action = "product:update"
	ActionDeleteProduct Action = "product:delete"
	// ActionListInquiries targets a farmer id: the caller asks to read all
	// inquiries addressed to that farmer.
	ActionListInquiries Action = "inquiry:list"
	ActionUpdateInquiry Action = "inquiry:update"
	ActionDeleteInquiry Action = "inquiry:delete"
	// ActionViewFarmerStats targets a farmer id.
	ActionViewFarmerStats Action = "farmer:stats"
)

// Engine composes role and ownership checks into a single allow/deny
// decision. Every mutating or role-restricted handler must route through it;
// the boolean logic lives nowhere else.
type Engine struct {
	resolver *Resolver
}

// NewEngine creates a policy engine over the given ownership resolver.
func NewEngine(resolver *Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Authorize returns nil when the caller may perform action on the resource,
// ErrUnauthorized when the caller is not authenticated, ErrForbidden when
// role or ownership denies, and a wrapped store error on lookup failure.
// Which specific rule denied is deliberately not reported.
//
// Resource existence is the handler's concern and is resolved before calling
// Authorize; a missing resource still denies here (ownership fails closed).
func (e *Engine) Authorize(ctx context.Context, caller Caller, action Action, resourceID uuid.UUID) error {
	if !caller.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	// Admin overrides every ownership rule.
	if caller.Role == model.RoleAdmin {
		return nil
	}

	var (
		owns bool
		err  error
	)
	switch action {
	case ActionUpdateFarmer, ActionDeleteFarmer:
		owns, err = e.resolver.OwnsFarmer(ctx, caller.ID, resourceID)
	case ActionUpdateProduct, ActionDeleteProduct:
		owns, err = e.resolver.OwnsProduct(ctx, caller.ID, resourceID)
	case ActionListInquiries, ActionViewFarmerStats:
		if caller.Role != model.RoleFarmer {
			return apperrors.ErrForbidden
		}
		owns, err = e.resolver.OwnsFarmer(ctx, caller.ID, resourceID)
	case ActionUpdateInquiry, ActionDeleteInquiry:
		if caller.Role != model.RoleFarmer {
			return apperrors.ErrForbidden
		}
		owns, err = e.resolver.OwnsInquiry(ctx, caller.ID, resourceID)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return err
	}
	if !owns {
		return apperrors.ErrForbidden
	}
	return nil
}

// RequireRole allows only callers holding one of the given roles. Used for
// role-gated surfaces with no single target resource (admin listings, the
// farmer dashboard).
func (e *Engine) RequireRole(caller Caller, roles ...model.Role) error {
	if !caller.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	for _, r := range roles {
		if caller.Role == r {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// RequireAdmin allows only admins.
func (e *Engine) RequireAdmin(caller Caller) error {
	return e.RequireRole(caller, model.RoleAdmin)
}
