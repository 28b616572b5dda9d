package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email is a rendered notification ready for a Mailer.
type Email struct {
	Subject  string
	HTMLBody string
}

var ticketCreatedTmpl = template.Must(template.New("ticket_created").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4CAF50;">Ticket Created</h2>
  <p>Your ticket has been registered in our system.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>ID:</strong> {{.TicketID}}</p>
    <p><strong>Title:</strong> {{.Title}}</p>
    <p><strong>Priority:</strong> {{.Priority}}</p>
    <p><strong>Status:</strong> Open</p>
  </div>
  <p>You will be notified about any update on your ticket.</p>
  <p style="color: #666; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>`))

var ticketAssignedTmpl = template.Must(template.New("ticket_assigned").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2196F3;">New Ticket Assigned</h2>
  <p>A new ticket has been assigned to you.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>ID:</strong> {{.TicketID}}</p>
    <p><strong>Title:</strong> {{.Title}}</p>
    <p><strong>Description:</strong> {{.Description}}</p>
    <p><strong>Priority:</strong> {{.Priority}}</p>
  </div>
  <p>Please review the ticket and start working on it.</p>
</div>`))

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #FF9800;">Ticket Status Updated</h2>
  <p>The status of your ticket has changed.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>ID:</strong> {{.TicketID}}</p>
    <p><strong>Title:</strong> {{.Title}}</p>
    <p><strong>Previous status:</strong> {{.OldStatus}}</p>
    <p><strong>New status:</strong> {{.NewStatus}}</p>
  </div>
  <p>You can review the details in your ticket panel.</p>
</div>`))

var newMessageTmpl = template.Must(template.New("new_message").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #9C27B0;">New Message</h2>
  <p>{{.SenderName}} sent a message on your ticket.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Ticket:</strong> {{.Title}}</p>
    <p><strong>Message:</strong></p>
    <p style="padding: 10px; background-color: white; border-left: 3px solid #9C27B0;">{{.Message}}</p>
  </div>
  <p>Reply from your ticket panel.</p>
</div>`))

// TicketCreatedEmail renders the owner notification for a new ticket.
func TicketCreatedEmail(ticketID, title, priority string) (*Email, error) {
	body, err := render(ticketCreatedTmpl, map[string]string{
		"TicketID": ticketID,
		"Title":    title,
		"Priority": priority,
	})
	if err != nil {
		return nil, err
	}
	return &Email{Subject: fmt.Sprintf("Ticket created: %s", title), HTMLBody: body}, nil
}

// TicketAssignedEmail renders the agent notification for an assignment.
func TicketAssignedEmail(ticketID, title, description, priority string) (*Email, error) {
	body, err := render(ticketAssignedTmpl, map[string]string{
		"TicketID":    ticketID,
		"Title":       title,
		"Description": description,
		"Priority":    priority,
	})
	if err != nil {
		return nil, err
	}
	return &Email{Subject: fmt.Sprintf("New ticket assigned: %s", title), HTMLBody: body}, nil
}

// StatusChangedEmail renders the owner notification for a status transition.
func StatusChangedEmail(ticketID, title, oldStatus, newStatus string) (*Email, error) {
	body, err := render(statusChangedTmpl, map[string]string{
		"TicketID":  ticketID,
		"Title":     title,
		"OldStatus": oldStatus,
		"NewStatus": newStatus,
	})
	if err != nil {
		return nil, err
	}
	return &Email{Subject: fmt.Sprintf("Ticket update: %s", title), HTMLBody: body}, nil
}

// NewMessageEmail renders the owner notification for a staff reply.
func NewMessageEmail(title, senderName, message string) (*Email, error) {
	body, err := render(newMessageTmpl, map[string]string{
		"Title":      title,
		"SenderName": senderName,
		"Message":    message,
	})
	if err != nil {
		return nil, err
	}
	return &Email{Subject: fmt.Sprintf("New message on ticket: %s", title), HTMLBody: body}, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
