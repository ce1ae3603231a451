package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdv88/quoteDrop-webapp/internal/config"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/metrics"
)

var ErrNoRecipient = errors.New("invalid_recipient")

// Attachment is a file carried by a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Transport delivers a fully assembled RFC 5322 message. It exists so
// tests can capture mail without a live SMTP server.
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// Mailer assembles and sends quote emails. The transport is built once at
// construction from configuration.
type Mailer struct {
	transport Transport
	from      string
	log       *zap.Logger
	metrics   *metrics.RenderMetrics
}

// New constructs a Mailer over the given transport.
func New(transport Transport, from string, log *zap.Logger, m *metrics.RenderMetrics) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{transport: transport, from: from, log: log.Named("mailer"), metrics: m}
}

// NewFromConfig constructs a Mailer with an SMTP transport from cfg.
func NewFromConfig(cfg config.Config, log *zap.Logger, m *metrics.RenderMetrics) *Mailer {
	return New(newSMTPTransport(cfg), cfg.SMTP.From, log, m)
}

// Send delivers msg. The attachment, when present, is carried as a
// base64 encoded application/pdf part.
func (ml *Mailer) Send(ctx context.Context, msg Message) error {
	err := ml.send(ctx, msg)
	ml.metrics.IncEmail(err)
	if err != nil {
		ml.log.Warn("email_send_failed", zap.String("to", msg.To), zap.Error(err))
		return err
	}
	ml.log.Info("email_sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (ml *Mailer) send(ctx context.Context, msg Message) error {
	to, err := mail.ParseAddress(strings.TrimSpace(msg.To))
	if err != nil {
		return ErrNoRecipient
	}

	raw, err := assemble(ml.from, to.Address, msg)
	if err != nil {
		return fmt.Errorf("assemble message: %w", err)
	}
	return ml.transport.Send(ctx, envelopeAddress(ml.from), []string{to.Address}, raw)
}

// envelopeAddress extracts the bare address from a possibly display-named
// From header value.
func envelopeAddress(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	return from
}

func assemble(from, to string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if msg.Attachment == nil {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(msg.Body)
		buf.WriteString("\r\n")
		return buf.Bytes(), nil
	}

	w := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	part, err := w.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", "application/pdf")
	fileHeader.Set("Content-Transfer-Encoding", "base64")
	fileHeader.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", msg.Attachment.Filename))
	part, err = w.CreatePart(fileHeader)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(msg.Attachment.Content)
	for len(encoded) > 0 {
		n := len(encoded)
		if n > 76 {
			n = 76
		}
		if _, err := part.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[n:]
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// smtpTransport sends over plain SMTP with optional auth. net/smtp has no
// context support, so the dial-and-send runs in a goroutine bounded by ctx.
type smtpTransport struct {
	addr string
	auth smtp.Auth
}

func newSMTPTransport(cfg config.Config) *smtpTransport {
	t := &smtpTransport{
		addr: fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port),
	}
	if cfg.SMTP.Username != "" {
		t.auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	}
	return t
}

func (t *smtpTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(t.addr, t.auth, from, to, msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(30 * time.Second):
		return errors.New("smtp_send_timeout")
	}
}
