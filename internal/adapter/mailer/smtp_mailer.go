package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/config"
	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/logger"

	"go.uber.org/zap"
)

// SMTPMailer sends quiz result summaries over plain SMTP. An unconfigured
// mailer (no host or credentials) returns an error from SendResults so the
// caller can degrade to a warning response instead of failing the request.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// IsConfigured reports whether enough settings are present to send mail.
func (m *SMTPMailer) IsConfigured() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

// SendResults delivers a quiz result summary to the given address.
func (m *SMTPMailer) SendResults(ctx context.Context, email string, summary domain.ResultsSummary) error {
	l := logger.Get()

	if !m.IsConfigured() {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Quiz Results - %s (Grade %s)", summary.Subject, summary.Grade)
	body := buildResultsBody(summary)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{email}, []byte(msg.String())); err != nil {
		l.Error("Failed to send results email", zap.Error(err), zap.String("to", email))
		return fmt.Errorf("failed to send results email: %w", err)
	}

	l.Info("Quiz results email sent", zap.String("to", email))
	return nil
}

func buildResultsBody(summary domain.ResultsSummary) string {
	var performance string
	switch {
	case summary.Score >= 80:
		performance = "Excellent work! You demonstrated strong understanding."
	case summary.Score >= 60:
		performance = "Good job! There's room for improvement."
	default:
		performance = "Keep practicing! Focus on the fundamentals."
	}

	var suggestionsBlock string
	if len(summary.Suggestions) > 0 {
		var items strings.Builder
		for _, s := range summary.Suggestions {
			items.WriteString(fmt.Sprintf("<li>%s</li>", s))
		}
		suggestionsBlock = fmt.Sprintf(`
      <div style="background-color: #fff3e0; padding: 15px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0; color: #f57c00;">Improvement Suggestions</h3>
        <ul>%s</ul>
      </div>`, items.String())
	}

	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #333;">Quiz Results</h2>
      <p>Hello %s,</p>

      <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0;">Quiz Summary</h3>
        <p><strong>Subject:</strong> %s</p>
        <p><strong>Grade Level:</strong> %s</p>
        <p><strong>Score:</strong> %d%% (%d/%d correct)</p>
        <p><strong>Date:</strong> %s</p>
      </div>

      <div style="background-color: #e8f5e8; padding: 15px; border-radius: 8px; margin: 20px 0;">
        <h3 style="margin-top: 0; color: #2e7d32;">Performance Analysis</h3>
        <p>%s</p>
      </div>
      %s
      <p style="color: #666; font-size: 14px;">
        Keep up the great work! Practice regularly to improve your skills.
      </p>
    </div>`,
		summary.Username, summary.Subject, summary.Grade,
		summary.Score, summary.Correct, summary.Total,
		time.Now().Format("January 2, 2006"),
		performance, suggestionsBlock)
}
