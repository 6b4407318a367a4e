package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the static permission table. Roles are fixed (ADMIN, TEACHER,
// STUDENT); there is no per-tenant policy storage.
var policies = [][]string{
	{"ADMIN", "allocation", "create"},
	{"ADMIN", "allocation", "read"},
	{"ADMIN", "leave", "read"},
	{"ADMIN", "leave", "decide"},
	{"ADMIN", "leave", "balance"},
	{"ADMIN", "employee", "create"},
	{"ADMIN", "employee", "read"},

	{"TEACHER", "leave", "apply"},
	{"TEACHER", "leave", "read_own"},
	{"TEACHER", "leave", "balance"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
