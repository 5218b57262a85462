// Package alert notifies building security when a flagged card is presented
// at a reader.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inbucket/html2text"
	"github.com/wneessen/go-mail"

	"building-access-control/internal/config"
	"building-access-control/internal/storage"
)

// Mailer sends security alert emails over SMTP. It satisfies the
// verification engine's Notifier interface.
type Mailer struct {
	cfg    *config.AlertConfig
	logger *slog.Logger
}

func NewMailer(cfg *config.AlertConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: slog.With("component", "alert"),
	}
}

// CardAlert sends an email about a BLOCKED or LOST card presented at a door.
// Failures are logged, not returned: an alert must never affect the access
// decision that triggered it.
func (m *Mailer) CardAlert(ctx context.Context, cardUID string, status storage.CardStatus, doorID int64) {
	if !m.cfg.Enabled || len(m.cfg.Recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Security alert: %s card presented", status)
	html := fmt.Sprintf(
		`<h2>Flagged card presented at a reader</h2>
<table>
<tr><td>Card UID</td><td>%s</td></tr>
<tr><td>Card status</td><td>%s</td></tr>
<tr><td>Door ID</td><td>%d</td></tr>
<tr><td>Time</td><td>%s</td></tr>
</table>
<p>The attempt was denied. Review the access log for this card.</p>`,
		cardUID, status, doorID, time.Now().UTC().Format(time.RFC3339))

	if err := m.send(ctx, subject, html); err != nil {
		m.logger.Error("Failed to send card alert",
			"card_uid", cardUID, "status", status, "door_id", doorID, "error", err)
		return
	}
	m.logger.Info("Card alert sent", "card_uid", cardUID, "status", status, "door_id", doorID)
}

func (m *Mailer) send(ctx context.Context, subject, html string) error {
	text, err := html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return fmt.Errorf("failed to convert HTML to text: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.cfg.Recipients...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}
