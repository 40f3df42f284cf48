package permission

import (
	"errors"
	"testing"
)

var allActions = []Action{CreateProject, EditProject, DeleteProject, CreateTask, EditTask, DeleteTask}

func TestForRoleTable(t *testing.T) {
	tests := []struct {
		role    Role
		allowed map[Action]bool
	}{
		{
			role: RoleAdmin,
			allowed: map[Action]bool{
				CreateProject: true, EditProject: true, DeleteProject: true,
				CreateTask: true, EditTask: true, DeleteTask: true,
			},
		},
		{
			role: RoleCollaborator,
			allowed: map[Action]bool{
				CreateProject: true, EditProject: true, DeleteProject: false,
				CreateTask: true, EditTask: true, DeleteTask: true,
			},
		},
		{
			role:    RoleViewer,
			allowed: map[Action]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			caps := For(tt.role)
			if !caps.ViewAll {
				t.Errorf("%s: ViewAll = false, want true", tt.role)
			}
			for _, a := range allActions {
				if got := caps.Allows(a); got != tt.allowed[a] {
					t.Errorf("%s.Allows(%s) = %v, want %v", tt.role, a, got, tt.allowed[a])
				}
			}
		})
	}
}

func TestForIsDeterministic(t *testing.T) {
	for _, r := range Roles() {
		if For(r) != For(r) {
			t.Errorf("For(%s) returned different sets", r)
		}
	}
}

func TestRolesAreNested(t *testing.T) {
	// each role's grants must be a subset of the role above it
	roles := Roles()
	for i := 1; i < len(roles); i++ {
		upper, lower := For(roles[i-1]), For(roles[i])
		for _, a := range allActions {
			if lower.Allows(a) && !upper.Allows(a) {
				t.Errorf("%s allows %s but %s does not", roles[i], a, roles[i-1])
			}
		}
	}
}

func TestUnknownRoleDeniesEverything(t *testing.T) {
	caps := For(Role("intern"))
	if caps != (Capabilities{}) {
		t.Fatalf("For(intern) = %+v, want zero set", caps)
	}
}

func TestCheck(t *testing.T) {
	if err := Check(RoleAdmin, DeleteProject); err != nil {
		t.Fatalf("admin delete project: %v", err)
	}

	err := Check(RoleCollaborator, DeleteProject)
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("Check(collaborator, DeleteProject) = %v, want *DeniedError", err)
	}
	if denied.Action != DeleteProject {
		t.Errorf("denied.Action = %v, want DeleteProject", denied.Action)
	}
	if got, want := err.Error(), "permission denied: collaborator cannot delete projects"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "admin", want: RoleAdmin},
		{in: " Collaborator ", want: RoleCollaborator},
		{in: "VIEWER", want: RoleViewer},
		{in: "owner", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
