package family

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Operations gated by member role. Every mutating service method checks the
// caller's role against these through a single Authorizer instead of scattered
// conditionals.
const (
	OpCreateInvitation = "invitation.create"
	OpCancelInvitation = "invitation.cancel"
	OpListInvitations  = "invitation.list"
	OpSetMemberLabel   = "member.set_label"
	OpRemoveMember     = "member.remove"
	OpRenameFamily     = "family.rename"
)

const authzModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

var rolePolicies = [][]string{
	{RoleOwner, OpCreateInvitation},
	{RoleOwner, OpCancelInvitation},
	{RoleOwner, OpListInvitations},
	{RoleOwner, OpSetMemberLabel},
	{RoleOwner, OpRemoveMember},
	{RoleOwner, OpRenameFamily},
	{RoleAdmin, OpCreateInvitation},
	{RoleAdmin, OpCancelInvitation},
	{RoleAdmin, OpListInvitations},
	{RoleAdmin, OpRenameFamily},
}

// Authorizer answers role x operation capability checks. The policy set is
// static and held in memory; roles live on the family_members rows.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(rolePolicies); err != nil {
		return nil, fmt.Errorf("authz policies: %w", err)
	}

	return &Authorizer{enforcer: enforcer}, nil
}

func (a *Authorizer) Allow(role, operation string) bool {
	ok, err := a.enforcer.Enforce(role, operation)
	return err == nil && ok
}
