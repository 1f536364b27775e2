package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/models"
)

var fulfilledTemplate = template.Must(template.New("fulfilled").Parse(`<p>Hi {{.Name}},</p>
<p>Your request for <strong>{{.Topic}}</strong> ({{.Subject}}, {{.Branch}} semester {{.Semester}}) has been fulfilled.</p>
{{if .ResourceURL}}<p><a href="{{.ResourceURL}}">Open the resource</a></p>{{end}}
<p><a href="{{.AppURL}}">StudyShare</a></p>
`))

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	appURL       string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.SMTPFromEmail,
		fromName:     cfg.SMTPFromName,
		appURL:       cfg.AppURL,
	}
}

// SendEmail sends an HTML email over SMTP
func (s *EmailService) SendEmail(to, subject, body string) error {
	msg := s.buildMessage(to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	// Development mailers (mailhog and friends) run without authentication
	if s.smtpUsername == "" && s.smtpPassword == "" {
		conn, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		if ok, _ := conn.Extension("STARTTLS"); ok {
			if err := conn.StartTLS(s.tlsConfig()); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
		if err := conn.Mail(s.fromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err := conn.Rcpt(to); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := conn.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err := w.Write(msg); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}
		return conn.Quit()
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NotifyRequestFulfilled mails the requester once their material request
// has been satisfied.
func (s *EmailService) NotifyRequestFulfilled(user models.User, request models.MaterialRequest) error {
	body, err := renderFulfilledEmail(s.appURL, user, request)
	if err != nil {
		return err
	}
	return s.SendEmail(user.Email, fmt.Sprintf("Your request \"%s\" was fulfilled - StudyShare", request.Topic), body)
}

func renderFulfilledEmail(appURL string, user models.User, request models.MaterialRequest) (string, error) {
	data := map[string]interface{}{
		"Name":     user.Name,
		"Topic":    request.Topic,
		"Subject":  request.Subject,
		"Branch":   request.Branch,
		"Semester": request.Semester,
		"AppURL":   appURL,
	}
	if request.FulfilledResourceID != nil {
		data["ResourceURL"] = fmt.Sprintf("%s/resources/%s", appURL, *request.FulfilledResourceID)
	}

	var buf bytes.Buffer
	if err := fulfilledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

func (s *EmailService) buildMessage(to, subject, body string) []byte {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	return []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", from, to, subject, body))
}

// For localhost (development), skip TLS verification
func (s *EmailService) tlsConfig() *tls.Config {
	if s.smtpHost == "localhost" || s.smtpHost == "127.0.0.1" {
		return &tls.Config{InsecureSkipVerify: true, ServerName: s.smtpHost}
	}
	return &tls.Config{ServerName: s.smtpHost}
}
