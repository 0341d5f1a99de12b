package messaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers one composed message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Message is a composed outreach mail.
type Message struct {
	Row     int // 0-based data row
	Column  string
	To      string
	Subject string
	Body    string
}

func newMsg(fromName, fromEmail string, m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if fromEmail != "" {
		if err := msg.FromFormat(fromName, fromEmail); err != nil {
			return nil, fmt.Errorf("mail from: %w", err)
		}
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	return msg, nil
}

// DraftSender writes each message as an .eml file for the operator to send
// by hand.
type DraftSender struct {
	Dir       string
	FromName  string
	FromEmail string
	Day       time.Time
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(s string) string {
	return strings.Trim(unsafeFileChars.ReplaceAllString(s, "_"), "_")
}

// DraftPath returns where the draft for m is written.
func (d *DraftSender) DraftPath(m Message) string {
	name := fmt.Sprintf("%s_%s_%s.eml", d.Day.Format("20060102"), sanitizeFilename(m.Column), sanitizeFilename(m.To))
	return filepath.Join(d.Dir, name)
}

func (d *DraftSender) Send(_ context.Context, m Message) error {
	msg, err := newMsg(d.FromName, d.FromEmail, m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	if err := msg.WriteToFile(d.DraftPath(m)); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

// SMTPSender delivers messages through an SMTP server via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := newMsg(s.fromName, s.fromEmail, m)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}
	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
