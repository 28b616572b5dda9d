package domain

import "testing"

func TestTicketStatusValidity(t *testing.T) {
	for s := StatusOpen; s <= StatusClosed; s++ {
		if !s.IsValid() {
			t.Errorf("status %d should be valid", s)
		}
	}
	for _, s := range []TicketStatus{0, 8, -1, 100} {
		if s.IsValid() {
			t.Errorf("status %d should be invalid", s)
		}
	}
}

func TestTicketStatusNames(t *testing.T) {
	cases := map[TicketStatus]string{
		StatusOpen:       "Open",
		StatusInProgress: "In Progress",
		StatusClosed:     "Closed",
		TicketStatus(42): "Unknown",
	}
	for status, want := range cases {
		if got := status.Name(); got != want {
			t.Errorf("Name(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestTicketPriorityValidity(t *testing.T) {
	for _, p := range []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.IsValid() {
			t.Errorf("priority %d should be valid", p)
		}
	}
	for _, p := range []TicketPriority{0, 4, -2} {
		if p.IsValid() {
			t.Errorf("priority %d should be invalid", p)
		}
	}
}

func TestCanTransition(t *testing.T) {
	// every pair of valid states is currently allowed, including reopening
	for from := StatusOpen; from <= StatusClosed; from++ {
		for to := StatusOpen; to <= StatusClosed; to++ {
			if !CanTransition(from, to) {
				t.Errorf("transition %s -> %s should be allowed", from.Name(), to.Name())
			}
		}
	}
}

func TestCanTransitionRejectsUnknownTarget(t *testing.T) {
	if CanTransition(StatusOpen, TicketStatus(9)) {
		t.Error("transition to unknown status should be rejected")
	}
	if CanTransition(TicketStatus(0), StatusOpen) {
		t.Error("transition from unknown status should be rejected")
	}
}

func TestRolePredicates(t *testing.T) {
	cases := []struct {
		name         string
		user         *User
		admin, staff bool
	}{
		{"nil user", nil, false, false},
		{"active user", &User{Role: RoleUser, Active: true}, false, false},
		{"active agent", &User{Role: RoleAgent, Active: true}, false, true},
		{"active admin", &User{Role: RoleAdministrator, Active: true}, true, true},
		{"inactive admin", &User{Role: RoleAdministrator, Active: false}, false, false},
		{"inactive agent", &User{Role: RoleAgent, Active: false}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.IsAdmin(); got != tc.admin {
				t.Errorf("IsAdmin() = %v, want %v", got, tc.admin)
			}
			if got := tc.user.IsAgentOrAdmin(); got != tc.staff {
				t.Errorf("IsAgentOrAdmin() = %v, want %v", got, tc.staff)
			}
		})
	}
}
