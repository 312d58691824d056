package authz

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanModify(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"owner", Actor{ID: owner, Role: RoleStudent}, true},
		{"admin", Actor{ID: other, Role: RoleAdmin}, true},
		{"other student", Actor{ID: other, Role: RoleStudent}, false},
		{"other instructor", Actor{ID: other, Role: RoleInstructor}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModify(tc.actor, owner); got != tc.want {
				t.Fatalf("CanModify(%s) = %v, want %v", tc.actor.Role, got, tc.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleStudent, RoleInstructor, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be a valid role", role)
		}
	}
	if ValidRole("superuser") {
		t.Error("expected superuser to be invalid")
	}
}
