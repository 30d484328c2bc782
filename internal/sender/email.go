// internal/sender/email.go
package sender

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "gopkg.in/gomail.v2"

	"github.com/candraczapansky/salon-notify/internal/config"
)

// SMTPEmailSender sends email through an SMTP relay.
type SMTPEmailSender struct {
	cfg config.SMTPConfig
}

func NewSMTPEmailSender(cfg config.SMTPConfig) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg}
}

func (s *SMTPEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	from := msg.From
	if from == "" {
		from = s.cfg.FromEmail
	}
	if msg.FromName != "" {
		m.SetAddressHeader("From", from, msg.FromName)
	} else {
		m.SetHeader("From", from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.SkipTLSVerify,
	}

	if err := d.DialAndSend(m); err != nil {
		if code, ok := permanentSMTPFailure(err); ok {
			return &PermanentBlockError{Code: code, Message: err.Error()}
		}
		return fmt.Errorf("could not send email: %w", err)
	}
	return nil
}

// permanentSMTPFailure recognizes 55x rejections, which mean the mailbox is
// gone or the recipient blocked us.
func permanentSMTPFailure(err error) (string, bool) {
	msg := err.Error()
	for _, code := range []string{"550", "551", "553", "554"} {
		if strings.Contains(msg, code+" ") || strings.Contains(msg, code+"-") {
			return code, true
		}
	}
	return "", false
}

var _ EmailSender = (*SMTPEmailSender)(nil)
