package service

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"super40_backend/internals/configs"
)

// Notifier sends the confirmation email after a successful submission.
// Delivery is advisory: the caller fires it in a goroutine and never lets a
// failure affect the submission result.
type Notifier interface {
	SendConfirmation(ctx context.Context, studentName, email, applicationNumber string) error
}

// BrevoNotifier delivers through the Brevo transactional email API.
type BrevoNotifier struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	BaseURL     string
	Client      *http.Client
}

func NewBrevoNotifierFromEnv() *BrevoNotifier {
	return &BrevoNotifier{
		APIKey:      configs.BrevoAPIKey,
		SenderName:  configs.SenderName,
		SenderEmail: configs.SenderEmail,
		BaseURL:     "https://api.brevo.com",
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoMessage struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

func (n *BrevoNotifier) SendConfirmation(ctx context.Context, studentName, email, applicationNumber string) error {
	if n.APIKey == "" {
		return fmt.Errorf("brevo: BREVO_API_KEY not configured")
	}

	name := html.EscapeString(studentName)
	number := html.EscapeString(applicationNumber)
	msg := brevoMessage{
		Sender:  brevoParty{Name: n.SenderName, Email: n.SenderEmail},
		To:      []brevoParty{{Name: name, Email: email}},
		Subject: fmt.Sprintf("Ajmal Super 40 - Application Received (%s)", applicationNumber),
		HTMLContent: fmt.Sprintf(
			`<p>Dear %s,</p>
<p>Your application has been received successfully.</p>
<p>Your application number is <b>%s</b>. Keep it safe: you will need it together with your date of birth to check your application status.</p>
<p>Regards,<br/>%s</p>`,
			name, number, html.EscapeString(n.SenderName),
		),
	}

	body, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("brevo: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.BaseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("brevo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", n.APIKey)

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo: status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
