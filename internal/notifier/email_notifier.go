package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/aleister1102/ticketwatch/internal/console"
	"github.com/rs/zerolog"
)

// EmailNotifier sends the ticket alert emails.
type EmailNotifier struct {
	cfg       config.EmailConfig
	target    config.TargetConfig
	transport MailTransport
	console   *console.Console
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEmailNotifier creates a notifier delivering through transport.
func NewEmailNotifier(cfg config.EmailConfig, target config.TargetConfig, transport MailTransport, cons *console.Console, logger zerolog.Logger) *EmailNotifier {
	if cons == nil {
		cons = console.Discard()
	}
	return &EmailNotifier{
		cfg:       cfg,
		target:    target,
		transport: transport,
		console:   cons,
		logger:    logger.With().Str("component", "EmailNotifier").Logger(),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for the Date header and body timestamp.
func (n *EmailNotifier) WithClock(now func() time.Time) *EmailNotifier {
	n.now = now
	return n
}

// Notify sends alert seq. Any failure is reported as a *SendError.
func (n *EmailNotifier) Notify(ctx context.Context, seq int) error {
	n.console.Sending(seq)

	err := n.send(ctx, seq)
	if err != nil {
		var sendErr *SendError
		if !errors.As(err, &sendErr) {
			sendErr = newSendError(StageData, err)
		}
		sendErr.Sequence = seq
		n.logger.Error().
			Err(sendErr.Err).
			Str("stage", string(sendErr.Stage)).
			AnErr("root_cause", common.GetRootCause(sendErr.Err)).
			Int("sequence", seq).
			Msg("Failed to send alert email")
		n.console.SendFailed(sendErr)
		return sendErr
	}

	n.logger.Info().Int("sequence", seq).Str("recipient", n.cfg.Recipient).Msg("Alert email sent")
	n.console.Sent(seq)
	return nil
}

func (n *EmailNotifier) send(ctx context.Context, seq int) error {
	if missing := n.cfg.Ready(); missing != "" {
		return newSendError(StageCompose, fmt.Errorf("email %s is not configured", missing))
	}

	msg, err := NewAlertMessage(n.cfg.Sender(), n.cfg.Recipient, AlertContent{
		EventName: n.target.EventName,
		SiteName:  n.target.SiteName,
		URL:       n.target.URL,
		Sequence:  seq,
		Time:      n.now(),
	})
	if err != nil {
		return newSendError(StageCompose, err)
	}
	data, err := msg.Bytes()
	if err != nil {
		return newSendError(StageCompose, err)
	}

	return n.transport.Send(ctx, Envelope{
		From: msg.From,
		To:   []string{msg.To},
		Data: data,
	})
}
