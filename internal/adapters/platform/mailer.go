package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// SendFunc delivers a message over SMTP. It matches smtp.SendMail.
type SendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// MailConfig describes the SMTP relay used for alert mail
type MailConfig struct {
	Address  string
	Username string
	Password string
	From     string
	To       []string
}

// MailNotifier wraps a platform and additionally mails every notification
type MailNotifier struct {
	core.Platform
	cfg    MailConfig
	send   SendFunc
	logger *zap.Logger
}

// NewMailNotifier decorates next with alert mail delivery
func NewMailNotifier(next core.Platform, cfg MailConfig, logger *zap.Logger) *MailNotifier {
	return &MailNotifier{
		Platform: next,
		cfg:      cfg,
		send:     smtp.SendMail,
		logger:   logger,
	}
}

// Notify forwards to the wrapped platform, then mails the alert. A mail
// failure is logged and never hides the platform notification.
func (m *MailNotifier) Notify(ctx context.Context, n core.Notification) error {
	if err := m.Platform.Notify(ctx, n); err != nil {
		return err
	}

	var auth sasl.Client
	if m.cfg.Username != "" {
		auth = sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
	}

	msg := m.compose(n)
	if err := m.send(m.cfg.Address, auth, m.cfg.From, m.cfg.To, bytes.NewReader(msg)); err != nil {
		m.logger.Error("Failed to send alert mail",
			zap.String("relay", m.cfg.Address),
			zap.String("domain", n.Domain),
			zap.Error(err))
		return nil
	}

	m.logger.Debug("Alert mail sent", zap.String("domain", n.Domain), zap.Strings("to", m.cfg.To))
	return nil
}

func (m *MailNotifier) compose(n core.Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Title)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "%s\r\n\r\nURL: %s\r\nRisk score: %d/100\r\n", n.Message, n.URL, n.RiskScore)
	return []byte(b.String())
}
