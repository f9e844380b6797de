package application

import (
	"context"
	"fmt"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// EditPolicy decides who may edit events of a scope.
type EditPolicy string

const (
	EditPolicyAuthorOnly EditPolicy = "author_only"
	EditPolicyMembers    EditPolicy = "members"
)

func ParseEditPolicy(s string) (EditPolicy, error) {
	switch p := EditPolicy(s); p {
	case EditPolicyAuthorOnly, EditPolicyMembers:
		return p, nil
	case "":
		return EditPolicyAuthorOnly, nil
	default:
		return "", fmt.Errorf("unknown edit policy %q", s)
	}
}

var _ output.Authorizer = (*ScopePolicy)(nil)

// ScopePolicy applies a default edit policy with per-scope overrides.
type ScopePolicy struct {
	defaultPolicy EditPolicy
	overrides     map[string]EditPolicy
}

// NewScopePolicy builds a policy where memberScopes use EditPolicyMembers.
func NewScopePolicy(defaultPolicy EditPolicy, memberScopes []string) *ScopePolicy {
	overrides := make(map[string]EditPolicy, len(memberScopes))
	for _, scope := range memberScopes {
		overrides[scope] = EditPolicyMembers
	}
	return &ScopePolicy{defaultPolicy: defaultPolicy, overrides: overrides}
}

func (p *ScopePolicy) PolicyFor(scopeID string) EditPolicy {
	if policy, ok := p.overrides[scopeID]; ok {
		return policy
	}
	return p.defaultPolicy
}

func (p *ScopePolicy) CanEdit(_ context.Context, userID string, event *entities.Event) bool {
	if event == nil || userID == "" {
		return false
	}
	if p.PolicyFor(event.ScopeID) == EditPolicyMembers {
		return true
	}
	return event.CreatorID == userID
}
