package notify

import (
	"strings"
	"testing"
)

func TestTicketCreatedEmail(t *testing.T) {
	email, err := TicketCreatedEmail("t-1", "Printer broken", "High")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(email.Subject, "Printer broken") {
		t.Errorf("subject = %q", email.Subject)
	}
	for _, want := range []string{"t-1", "Printer broken", "High", "Open"} {
		if !strings.Contains(email.HTMLBody, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestStatusChangedEmailCarriesBothStatuses(t *testing.T) {
	email, err := StatusChangedEmail("t-1", "Printer broken", "Assigned", "Resolved")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(email.HTMLBody, "Assigned") || !strings.Contains(email.HTMLBody, "Resolved") {
		t.Error("body must contain old and new status")
	}
}

func TestNewMessageEmailEscapesContent(t *testing.T) {
	email, err := NewMessageEmail("Printer broken", "Agent", `<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(email.HTMLBody, "<script>") {
		t.Error("message content must be HTML-escaped")
	}
	if !strings.Contains(email.HTMLBody, "Agent") {
		t.Error("body missing sender name")
	}
}

func TestTicketAssignedEmail(t *testing.T) {
	email, err := TicketAssignedEmail("t-2", "VPN down", "Cannot connect since Monday", "Medium")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"t-2", "VPN down", "Cannot connect since Monday", "Medium"} {
		if !strings.Contains(email.HTMLBody, want) {
			t.Errorf("body missing %q", want)
		}
	}
}
