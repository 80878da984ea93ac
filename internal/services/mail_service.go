// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/k3a/html2text"
	"github.com/pkg/errors"
	"helpful/internal/config"
)

// Mail is one outgoing message. Headers are complete "Name: value" lines.
type Mail struct {
	To      []string
	Subject string
	Body    string
	Headers []string
}

type IMailService interface {
	Send(ctx context.Context, mail Mail) error
}

type smtpMailService struct {
	cfg config.SMTPConfig
}

func NewSMTPMailService(cfg config.SMTPConfig) (IMailService, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is not configured")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &smtpMailService{cfg: cfg}, nil
}

func (s *smtpMailService) Send(ctx context.Context, mail Mail) error {
	if len(mail.To) == 0 {
		return errors.New("mail has no recipients")
	}
	msg := buildMessage(s.formatFromHeader(), mail, time.Now())
	return s.deliver(ctx, mail.To, msg)
}

// ------------------- Rendering -------------------

// buildMessage renders the RFC 5322 message. An HTML content type becomes a
// multipart/alternative message with a plain-text rendering of the body.
func buildMessage(from string, mail Mail, now time.Time) []byte {
	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	contentType := "text/plain; charset=UTF-8"
	var extra []string
	for _, h := range mail.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		name = headerSafe(strings.TrimSpace(name))
		value = headerSafe(strings.TrimSpace(value))
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "Content-Type") {
			contentType = value
			continue
		}
		extra = append(extra, name+": "+value)
	}

	write("From: %s\r\n", from)
	write("To: %s\r\n", headerSafe(strings.Join(mail.To, ", ")))
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", headerSafe(mail.Subject)))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	for _, h := range extra {
		write("%s\r\n", h)
	}
	write("MIME-Version: 1.0\r\n")

	if !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		write("Content-Type: %s\r\n", contentType)
		write("Content-Transfer-Encoding: 8bit\r\n\r\n")
		write("%s\r\n", mail.Body)
		return msg.Bytes()
	}

	boundary := fmt.Sprintf("alt_%d", now.UnixNano())
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	// Plaintext part
	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", html2text.HTML2Text(mail.Body))

	// HTML part
	write("--%s\r\n", boundary)
	write("Content-Type: %s\r\n", contentType)
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", mail.Body)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) deliver(ctx context.Context, to []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: 10 * time.Second}, Config: tlsCfg}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		dialer := &net.Dialer{Timeout: 10 * time.Second}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return errors.Wrap(err, "dial smtp")
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return errors.Wrap(err, "smtp handshake")
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		// Upgrade to TLS if supported
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return errors.Wrap(err, "starttls")
			}
		} else if s.cfg.RequireTLS {
			return errors.New("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err = c.Auth(auth); err != nil {
			return errors.Wrap(err, "smtp auth")
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return errors.Wrap(err, "smtp MAIL FROM")
	}
	for _, rcpt := range to {
		if err = c.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "smtp RCPT TO %s", rcpt)
		}
	}
	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "smtp DATA")
	}
	if _, err = w.Write(msg); err != nil {
		return errors.Wrap(err, "write message")
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}

// noopMailService is used when no SMTP server is configured.
type noopMailService struct{}

func NewNoopMailService() IMailService { return noopMailService{} }

func (noopMailService) Send(context.Context, Mail) error {
	return errors.New("mail transport is not configured")
}
