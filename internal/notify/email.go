package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/config"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// EmailService dispatches notification emails through the transactional
// email API. Fire-and-forget: failures surface as delivery errors and are
// never retried.
type EmailService struct {
	httpClient *http.Client
	cfg        config.EmailConfig
	logger     *zap.Logger
}

// NewEmailService builds the service.
func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
		logger:     logger,
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts one email to the API with bearer-token auth.
func (s *EmailService) Send(ctx context.Context, recipient, subject, htmlContent string) error {
	payload, err := json.Marshal(emailRequest{
		From:    s.cfg.From,
		To:      []string{recipient},
		Subject: subject,
		HTML:    htmlContent,
	})
	if err != nil {
		return apperr.Delivery("encode email request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return apperr.Delivery("build email request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperr.Delivery("send email", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return apperr.Delivery(fmt.Sprintf("email API returned status %d: %s", resp.StatusCode, body), nil)
	}

	s.logger.Debug("email dispatched", zap.String("to", recipient), zap.String("subject", subject))
	return nil
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; }
        .container { padding: 20px; max-width: 600px; margin: 0 auto; }
        .header { background-color: #4A6572; color: white; padding: 10px; text-align: center; }
        .content { padding: 20px; }
        .footer { font-size: 12px; color: #666; text-align: center; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Harbor Group Notification</h2>
        </div>
        <div class="content">
            <p>Hello,</p>
            <p>{{.Message}}</p>
            <p>Ticket: <strong>{{.TicketTitle}}</strong></p>
            <p>Please log in to the Harbor Group app to view more details.</p>
        </div>
        <div class="footer">
            <p>&copy; {{.Year}} Harbor Group. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`))

// SendTicketNotification renders the fixed ticket-update template and sends
// it to the recipient.
func (s *EmailService) SendTicketNotification(ctx context.Context, recipient, ticketTitle, message string) error {
	var buf bytes.Buffer
	err := ticketTemplate.Execute(&buf, struct {
		Message     string
		TicketTitle string
		Year        int
	}{
		Message:     message,
		TicketTitle: ticketTitle,
		Year:        time.Now().Year(),
	})
	if err != nil {
		return apperr.Delivery("render ticket notification", err)
	}

	subject := "Ticket Update: " + ticketTitle
	return s.Send(ctx, recipient, subject, buf.String())
}
