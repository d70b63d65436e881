package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	TemplatesDir string
}

// SMTPProvider renders <TemplatesDir>/<templateID>.html with the
// personalisation map and relays it over SMTP.
type SMTPProvider struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg, send: smtp.SendMail}
}

func (p *SMTPProvider) SendTemplate(ctx context.Context, recipient string, templateID string, personalisation map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := p.render(templateID, personalisation)
	if err != nil {
		return "", err
	}

	subject := strings.TrimSpace(personalisation["subject"])
	if subject == "" {
		subject = defaultSubject(templateID, personalisation)
	}

	messageID := ulid.Make().String()
	contentType := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nMessage-ID: <%s@%s>\r\n%s\r\n%s",
		recipient, headerValue(subject), messageID, p.cfg.Host, contentType, body))

	var auth smtp.Auth
	if p.cfg.Username != "" {
		auth = smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	if err := p.send(addr, auth, p.cfg.From, []string{recipient}, msg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return messageID, nil
}

func (p *SMTPProvider) render(templateID string, personalisation map[string]string) (string, error) {
	name := filepath.Base(strings.TrimSpace(templateID))
	if name == "" || name == "." {
		return "", fmt.Errorf("%w: empty template id", ErrInvalidConfig)
	}
	tmplPath := filepath.Join(p.cfg.TemplatesDir, name+".html")

	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, personalisation); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

func defaultSubject(templateID string, personalisation map[string]string) string {
	if org := strings.TrimSpace(personalisation["organisation_name"]); org != "" {
		return fmt.Sprintf("Update about %s", org)
	}
	return "Notification: " + templateID
}

// headerValue folds a caller-supplied value onto one header line and
// Q-encodes anything outside printable ASCII.
func headerValue(value string) string {
	value = strings.Join(strings.FieldsFunc(value, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
	return mime.QEncoding.Encode("utf-8", strings.TrimSpace(value))
}
