package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailService sends transactional email through the Resend HTTP API.
type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
	endpoint    string
	client      *http.Client
}

func NewEmailService(apiKey, fromEmail, frontendURL string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
		endpoint:    resendEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the service at another Resend-compatible endpoint.
func (s *EmailService) WithEndpoint(endpoint string) *EmailService {
	s.endpoint = endpoint
	return s
}

func (s *EmailService) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// SendRSVPConfirmation tells the guest their answer was recorded.
func (s *EmailService) SendRSVPConfirmation(ctx context.Context, inv models.Invitation, guest models.Guest) error {
	if !s.Enabled() {
		return nil
	}
	if guest.Email == nil || *guest.Email == "" {
		return nil
	}

	invitationURL := s.frontendURL + inv.ShareURL

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #FF69B4 0%%, #FFD700 100%%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; }
        .button { display: inline-block; background: #FF69B4; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🎂 %s</h1>
        </div>
        <div class="content">
            <p>Hola <strong>%s</strong>,</p>
            <p>Hemos registrado tu respuesta: <strong>%s</strong> (%d %s).</p>
            <p>Fecha: %s</p>
            <a href="%s" class="button">Ver invitación</a>
        </div>
    </div>
</body>
</html>
	`,
		html.EscapeString(inv.EventTitle),
		html.EscapeString(guest.Name),
		rsvpLabel(guest.RSVPStatus),
		guest.NumberOfGuests, plural(guest.NumberOfGuests, "persona", "personas"),
		inv.EventDate.Format("02/01/2006"),
		html.EscapeString(invitationURL),
	)

	payload := map[string]any{
		"from":    fmt.Sprintf("Invitaciones <%s>", s.fromEmail),
		"to":      []string{*guest.Email},
		"subject": fmt.Sprintf("Tu respuesta para %s", inv.EventTitle),
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}

	return nil
}

func rsvpLabel(status models.RSVPStatus) string {
	switch status {
	case models.RSVPAccepted:
		return "asistiré"
	case models.RSVPDeclined:
		return "no podré asistir"
	case models.RSVPTentative:
		return "tal vez"
	default:
		return string(status)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
