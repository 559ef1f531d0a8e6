// Package notify delivers the operator email for a stored intake and
// publishes the submission event for the review workflow.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"kokos-intake/internal/models"
)

// Message is a rendered operator email.
type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// Notifier sends one message. Implementations do not retry.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Event is published after an intake has been stored.
type Event struct {
	Type         string `json:"type"`
	RecordID     string `json:"recordId"`
	BusinessName string `json:"businessName"`
	ContactEmail string `json:"contactEmail"`
	SubmittedAt  string `json:"submittedAt"`
}

const EventIntakeSubmitted = "intake.submitted"

// Publisher hands an event to the review workflow.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

const subjectPrefix = "Yeni Sistem Başlatma Talebi: "

var operatorHTML = template.Must(template.New("operator").Parse(
	`<h1>Yeni Müşteri Adayı</h1>
<p><strong>İşletme:</strong> {{.Business}}</p>
<p><strong>İletişim:</strong> {{.Contact}} ({{.Email}})</p>
<p><strong>Telefon:</strong> {{.Phone}}</p>
<p><strong>Hedef:</strong> {{.Goal}}</p>
<hr />
<p>Detaylı veri Supabase 'intakes' tablosuna kaydedildi.</p>
`))

type operatorView struct {
	Business string
	Contact  string
	Email    string
	Phone    string
	Goal     string
}

// BuildOperatorMessage renders the new-lead email for the operator inbox.
// Answer text is HTML escaped.
func BuildOperatorMessage(payload models.SubmissionPayload, from, to string) (Message, error) {
	view := operatorView{
		Business: payload.BusinessName(),
		Contact:  payload.ContactPerson(),
		Email:    payload.ContactEmail(),
		Phone:    payload.Phone(),
		Goal:     payload.Goal(),
	}

	var html bytes.Buffer
	if err := operatorHTML.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("render operator email: %w", err)
	}

	var text strings.Builder
	text.WriteString("Yeni Müşteri Adayı\n\n")
	fmt.Fprintf(&text, "İşletme: %s\n", view.Business)
	fmt.Fprintf(&text, "İletişim: %s (%s)\n", view.Contact, view.Email)
	fmt.Fprintf(&text, "Telefon: %s\n", view.Phone)
	fmt.Fprintf(&text, "Hedef: %s\n", view.Goal)

	return Message{
		To:      to,
		From:    from,
		Subject: subjectPrefix + view.Business,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
