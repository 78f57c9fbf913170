// Package mailer sends the account emails over SMTP. Every send is a
// best-effort side effect: callers log failures and move on.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"

	"go.uber.org/zap"

	"github.com/progitek/parabellum/config"
)

// Mailer sends transactional emails over the configured SMTP relay.
type Mailer struct {
	cfg config.EmailConfig
	log *zap.Logger
}

// New creates a new mailer
func New(cfg config.EmailConfig, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #2c5aa0;">Bienvenue, {{.FullName}} !</h2>
		<p>Votre compte Parabellum a été créé.</p>
		<p>Vous pouvez dès maintenant vous connecter et accéder au tableau de bord.</p>
		<p style="margin-top: 30px;">L'équipe ProgiTek</p>
	</div>
</body>
</html>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #2c5aa0;">Réinitialisation du mot de passe</h2>
		<p>Une réinitialisation du mot de passe a été demandée pour votre compte.</p>
		<p><a href="{{.Link}}">Choisir un nouveau mot de passe</a></p>
		<p>Ce lien expire prochainement. Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
		<p style="margin-top: 30px;">L'équipe ProgiTek</p>
	</div>
</body>
</html>
`))

// SendWelcome sends the account-created email.
func (m *Mailer) SendWelcome(email, fullName string) error {
	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, struct{ FullName string }{fullName}); err != nil {
		return err
	}
	return m.send(email, "Bienvenue sur Parabellum", body.String())
}

// SendPasswordReset sends the reset link carrying the purpose-bound token.
func (m *Mailer) SendPasswordReset(email, token string) error {
	link := m.cfg.ResetBaseURL + "?token=" + url.QueryEscape(token)
	var body bytes.Buffer
	if err := resetTmpl.Execute(&body, struct{ Link string }{link}); err != nil {
		return err
	}
	return m.send(email, "Réinitialisation de votre mot de passe", body.String())
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.cfg.Enabled() {
		m.log.Debug("smtp not configured, dropping email", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.FromName, m.cfg.FromAddress, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{to}, []byte(msg))
}
