package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-api/internal/auth"
	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/domain"
)

func newUserService(users ...domain.User) (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	svc := NewUserService(UserDependencies{UserRepo: repo, Gate: authz.NewDefaultGate()})
	return svc, repo
}

func TestGetOrCreateFirstContact(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	identity := &auth.Identity{ID: "id-1", Email: "new@example.com", FullName: "New Person"}

	account, err := svc.GetOrCreate(ctx, identity)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if account.Role != domain.RoleUser {
		t.Errorf("role = %v, want User", account.Role)
	}
	if !account.Active {
		t.Error("new account should be active")
	}
	if account.JobTitle != domain.DefaultJobTitle {
		t.Errorf("job title = %q, want %q", account.JobTitle, domain.DefaultJobTitle)
	}
	if account.Name != "New Person" {
		t.Errorf("name = %q", account.Name)
	}

	// second call returns the same account unchanged
	again, err := svc.GetOrCreate(ctx, identity)
	if err != nil {
		t.Fatalf("GetOrCreate (second): %v", err)
	}
	if again.ID != account.ID {
		t.Errorf("second call returned different account %q", again.ID)
	}
}

func TestGetOrCreateFallsBackToEmail(t *testing.T) {
	svc, _ := newUserService()
	account, err := svc.GetOrCreate(context.Background(), &auth.Identity{ID: "id-2", Email: "anon@example.com"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if account.Name != "anon@example.com" {
		t.Errorf("name = %q, want email fallback", account.Name)
	}
}

func TestGetOrCreatePreservesExisting(t *testing.T) {
	existing := domain.User{ID: "id-3", Name: "Promoted", Email: "p@example.com", Role: domain.RoleAgent, Active: true}
	svc, _ := newUserService(existing)

	account, err := svc.GetOrCreate(context.Background(), &auth.Identity{ID: "id-3", Email: "p@example.com", FullName: "Different Name"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if account.Role != domain.RoleAgent {
		t.Errorf("role = %v, existing account must not be reset", account.Role)
	}
	if account.Name != "Promoted" {
		t.Errorf("name = %q, existing account must not be overwritten", account.Name)
	}
}

func TestGetByIDTreatsInactiveAsAbsent(t *testing.T) {
	inactive := domain.User{ID: "id-4", Name: "Gone", Email: "g@example.com", Role: domain.RoleUser, Active: false}
	svc, _ := newUserService(inactive, testAdmin)

	_, err := svc.GetByID(context.Background(), &testAdmin, "id-4")
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

func TestRolePredicatesOnInactiveAccount(t *testing.T) {
	inactiveAdmin := domain.User{ID: "id-5", Role: domain.RoleAdministrator, Active: false}
	svc, _ := newUserService(inactiveAdmin)
	ctx := context.Background()

	if svc.IsAdmin(ctx, "id-5") {
		t.Error("inactive administrator should not pass IsAdmin")
	}
	if svc.IsAgentOrAdmin(ctx, "id-5") {
		t.Error("inactive administrator should not pass IsAgentOrAdmin")
	}
	if svc.IsAdmin(ctx, "missing") {
		t.Error("absent account should not pass IsAdmin")
	}
}

func TestUpdateRoleValidation(t *testing.T) {
	svc, _ := newUserService(testAdmin, testOther)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, &testAdmin, testOther.ID, 5)
	if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", code)
	}

	updated, err := svc.UpdateRole(ctx, &testAdmin, testOther.ID, domain.RoleAgent)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if updated.Role != domain.RoleAgent {
		t.Errorf("role = %v, want Agent", updated.Role)
	}

	_, err = svc.UpdateRole(ctx, &testAgent, testOther.ID, domain.RoleUser)
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Errorf("agent actor code = %q, want FORBIDDEN", code)
	}
}

func TestDeactivateSelfRejected(t *testing.T) {
	svc, _ := newUserService(testAdmin)
	_, err := svc.Deactivate(context.Background(), &testAdmin, testAdmin.ID)
	if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestDeactivateAndActivate(t *testing.T) {
	svc, repo := newUserService(testAdmin, testAgent)
	ctx := context.Background()

	updated, err := svc.Deactivate(ctx, &testAdmin, testAgent.ID)
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if updated.Active {
		t.Error("account should be inactive")
	}
	stored, _ := repo.GetByID(ctx, testAgent.ID)
	if stored.Active {
		t.Error("deactivation not persisted")
	}
	if svc.IsAgentOrAdmin(ctx, testAgent.ID) {
		t.Error("deactivated agent should fail the staff predicate")
	}

	reactivated, err := svc.Activate(ctx, &testAdmin, testAgent.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !reactivated.Active {
		t.Error("account should be active again")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService(testOwner)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, &testOwner, ProfileUpdateInput{})
	if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Errorf("empty input code = %q, want VALIDATION_FAILED", code)
	}

	empty := "   "
	_, err = svc.UpdateProfile(ctx, &testOwner, ProfileUpdateInput{Name: &empty})
	if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Errorf("blank name code = %q, want VALIDATION_FAILED", code)
	}

	name := "Renamed"
	title := "Facilities"
	updated, err := svc.UpdateProfile(ctx, &testOwner, ProfileUpdateInput{Name: &name, JobTitle: &title})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Renamed" || updated.JobTitle != "Facilities" {
		t.Errorf("profile = %q/%q", updated.Name, updated.JobTitle)
	}
}

func TestListAgentsFiltersRolesAndActive(t *testing.T) {
	svc, _ := newUserService(testOwner, testAgent, testAdmin, testInactive)
	agents, err := svc.ListAgents(context.Background(), &testAgent)
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("agents = %d, want 2 (active agent + admin)", len(agents))
	}
	for _, a := range agents {
		if a.Role == domain.RoleUser || !a.Active {
			t.Errorf("unexpected account %q in agent listing", a.ID)
		}
	}
}

func TestListRequiresAdmin(t *testing.T) {
	svc, _ := newUserService(testOwner, testAgent, testAdmin)
	if _, err := svc.List(context.Background(), &testAgent); err == nil {
		t.Error("agent should not list all accounts")
	}
	users, err := svc.List(context.Background(), &testAdmin)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("users = %d, want 3", len(users))
	}
}
