package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/platform/config"
)

var verifyMailTmpl = template.Must(template.New("verify").Parse(`
<p>Hi {{.Username}},</p>
<p>Welcome to {{.AppTitle}}! Please confirm your email address by clicking the link below:</p>
<p><a href="{{.ActionURL}}">Confirm email address</a></p>
<p>This link expires in 7 days. If you did not create an account, you can ignore this mail.</p>
`))

var resetMailTmpl = template.Must(template.New("reset").Parse(`
<p>Hi {{.Username}},</p>
<p>A password reset was requested for your {{.AppTitle}} account. Click the link below to choose a new password:</p>
<p><a href="{{.ActionURL}}">Reset password</a></p>
<p>This link expires in 15 minutes. If you did not request a reset, you can ignore this mail.</p>
`))

type mailTemplateData struct {
	Username  string
	AppTitle  string
	ActionURL string
}

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

var _ portssvc.MailerSvc = (*EmailService)(nil)

func (s *EmailService) SendVerificationMail(ctx context.Context, email, username, verifyURL string) error {
	return s.send(ctx, email, "Confirm your email address", verifyMailTmpl, mailTemplateData{
		Username:  username,
		AppTitle:  s.cfg.AppTitle,
		ActionURL: verifyURL,
	})
}

func (s *EmailService) SendPasswordResetMail(ctx context.Context, email, username, resetURL string) error {
	return s.send(ctx, email, "Reset your password", resetMailTmpl, mailTemplateData{
		Username:  username,
		AppTitle:  s.cfg.AppTitle,
		ActionURL: resetURL,
	})
}

func (s *EmailService) send(ctx context.Context, to, subject string, tmpl *template.Template, data mailTemplateData) error {
	if s.cfg.MailHost == "" {
		return fmt.Errorf("mail host not configured")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render mail body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.MailFromName, s.cfg.MailFrom); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	opts := []mail.Option{
		mail.WithPort(s.cfg.MailPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.MailUsername),
		mail.WithPassword(s.cfg.MailPassword),
	}
	if s.cfg.MailSSL {
		opts = append(opts, mail.WithSSL())
	}
	client, err := mail.NewClient(s.cfg.MailHost, opts...)
	if err != nil {
		return fmt.Errorf("failed to build mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
