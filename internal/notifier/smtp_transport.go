package notifier

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"

	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/rs/zerolog"
)

// Envelope is what a MailTransport delivers.
type Envelope struct {
	From string
	To   []string
	Data []byte
}

// MailTransport delivers a rendered message. Failures should be *SendError.
type MailTransport interface {
	Send(ctx context.Context, env Envelope) error
}

// SMTPTransport submits mail over an authenticated STARTTLS session.
// It never authenticates on a connection that was not upgraded to TLS.
type SMTPTransport struct {
	cfg       config.EmailConfig
	tlsConfig *tls.Config
	localName string
	logger    zerolog.Logger
}

// NewSMTPTransport creates a transport for cfg.
func NewSMTPTransport(cfg config.EmailConfig, logger zerolog.Logger) *SMTPTransport {
	return &SMTPTransport{
		cfg: cfg,
		tlsConfig: &tls.Config{
			ServerName: cfg.SMTPHost,
			MinVersion: tls.VersionTLS12,
		},
		localName: "localhost",
		logger:    logger.With().Str("component", "SMTPTransport").Logger(),
	}
}

// WithTLSConfig replaces the TLS client configuration used for STARTTLS.
func (t *SMTPTransport) WithTLSConfig(cfg *tls.Config) *SMTPTransport {
	if cfg != nil {
		t.tlsConfig = cfg
	}
	return t
}

// Send runs one full SMTP session. The whole session is bounded by the configured timeout.
func (t *SMTPTransport) Send(ctx context.Context, env Envelope) error {
	if timeout := t.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	addr := t.cfg.Address()
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return newSendError(StageConnect, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return newSendError(StageConnect, err)
	}
	defer client.Close()

	if err := client.Hello(t.localName); err != nil {
		return newSendError(StageConnect, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return newSendError(StageStartTLS, ErrStartTLSUnsupported)
	}
	if err := client.StartTLS(t.tlsConfig); err != nil {
		return newSendError(StageStartTLS, err)
	}

	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return newSendError(StageAuth, err)
	}

	if err := client.Mail(env.From); err != nil {
		return newSendError(StageEnvelope, err)
	}
	for _, rcpt := range env.To {
		if err := client.Rcpt(rcpt); err != nil {
			return newSendError(StageEnvelope, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return newSendError(StageData, err)
	}
	if _, err := w.Write(env.Data); err != nil {
		_ = w.Close()
		return newSendError(StageData, err)
	}
	if err := w.Close(); err != nil {
		return newSendError(StageData, err)
	}

	if err := client.Quit(); err != nil {
		t.logger.Debug().Err(err).Str("addr", addr).Msg("QUIT failed after successful delivery")
	}
	t.logger.Debug().Str("addr", addr).Int("bytes", len(env.Data)).Msg("Message accepted by relay")
	return nil
}
