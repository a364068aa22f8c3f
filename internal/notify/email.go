package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"guestdesk-system/config"
)

// MailSender delivers notifications through the configured SMTP transport.
type MailSender struct {
	client *mail.Client
	from   string
}

// NewMailSender returns nil when SMTP is not configured; the dispatcher
// treats a nil sender as an unconfigured channel.
func NewMailSender(cfg config.SMTPConfig) (*MailSender, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(10 * time.Second),
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &MailSender{client: client, from: cfg.From}, nil
}

func (s *MailSender) SendVisitorNotification(ctx context.Context, to string, req Request) error {
	subject := fmt.Sprintf("New Visitor: %s", req.GuestName)

	var contact string
	if req.GuestPhone != nil && *req.GuestPhone != "" {
		contact += fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", *req.GuestPhone)
	}
	if req.GuestEmail != nil && *req.GuestEmail != "" {
		contact += fmt.Sprintf("<p><strong>Email:</strong> %s</p>", *req.GuestEmail)
	}

	var extra string
	if req.Message != "" {
		extra = fmt.Sprintf("<p><strong>Additional message:</strong> %s</p>", req.Message)
	}

	body := fmt.Sprintf(`
		<h2>New Visitor Notification</h2>
		<p><strong>Name:</strong> %s</p>
		%s
		<p><strong>Purpose:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		%s
		<p>This is an automated notification from the Guest Check-in System.</p>`,
		req.GuestName, contact, req.Purpose, time.Now().Format(time.RFC1123), extra,
	)

	return s.send(ctx, to, subject, body)
}

func (s *MailSender) SendTest(ctx context.Context, to string) error {
	body := fmt.Sprintf(`
		<h2>Email Configuration Test</h2>
		<p>If you received this email, your email configuration is working correctly!</p>
		<p><strong>Sent at:</strong> %s</p>`,
		time.Now().Format(time.RFC1123),
	)
	return s.send(ctx, to, "Email Configuration Test", body)
}

func (s *MailSender) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return s.client.DialAndSendWithContext(ctx, msg)
}
