package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cineview/movie-api/config"
	"github.com/cineview/movie-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single email. Implementations must honor context
// cancellation where the underlying transport allows it.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender sends mail through an SMTP relay using gomail
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password),
		from:   cfg.Mail.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.ErrorWithContext(ctx, "Failed to send email").
			String("to", to).
			String("subject", subject).
			Err(err).
			Log()
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoWithContext(ctx, "Email sent").
		String("to", to).
		String("subject", subject).
		Log()

	return nil
}

// resetMailTemplate renders the password-reset email. The link embeds the
// raw token; only its hash is ever stored.
var resetMailTemplate = template.Must(
	template.New("reset").Funcs(sprig.FuncMap()).Parse(`
<p>Hi {{ .UserName | title }},</p>
<p>Click the link below to reset your password. The link expires
{{ .ExpiresIn }} minutes from now.</p>
<p><a href="{{ .ResetURL }}">Reset your password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
`))

type ResetMailData struct {
	UserName  string
	ResetURL  string
	ExpiresIn int
}

// RenderResetMail builds the HTML body for a password-reset email
func RenderResetMail(data ResetMailData) (string, error) {
	var buf bytes.Buffer
	if err := resetMailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return buf.String(), nil
}

// ResetURL joins the configured base URL with the raw token
func ResetURL(baseURL, rawToken string) string {
	return fmt.Sprintf("%s/%s", baseURL, rawToken)
}
