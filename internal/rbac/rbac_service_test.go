package rbac

import (
	"testing"

	"go-school/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestEnforce_StaticPolicies(t *testing.T) {
	enforcer, err := NewEnforcer()
	assert.NoError(t, err)

	svc := NewService(enforcer)

	cases := []struct {
		name    string
		role    string
		obj     string
		act     string
		allowed bool
	}{
		{"admin decides leave", domain.RoleAdmin, "leave", "decide", true},
		{"admin allocates", domain.RoleAdmin, "allocation", "create", true},
		{"admin reads any balance", domain.RoleAdmin, "leave", "balance", true},
		{"teacher applies for leave", domain.RoleTeacher, "leave", "apply", true},
		{"teacher reads own requests", domain.RoleTeacher, "leave", "read_own", true},
		{"teacher reads own balance", domain.RoleTeacher, "leave", "balance", true},
		{"teacher cannot decide", domain.RoleTeacher, "leave", "decide", false},
		{"teacher cannot allocate", domain.RoleTeacher, "allocation", "create", false},
		{"teacher cannot list all requests", domain.RoleTeacher, "leave", "read", false},
		{"student has no leave access", domain.RoleStudent, "leave", "apply", false},
		{"unknown role denied", "JANITOR", "leave", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				Resource: tc.obj,
				Action:   tc.act,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
