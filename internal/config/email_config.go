package config

import (
	"net"
	"strconv"
	"time"
)

// EmailConfig defines the SMTP submission session used for alerts
type EmailConfig struct {
	SMTPHost       string `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty" validate:"required,hostname_rfc1123|ip"`
	SMTPPort       int    `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"min=1,max=65535"`
	Username       string `json:"username,omitempty" yaml:"username,omitempty" validate:"omitempty,email"`
	Password       string `json:"password,omitempty" yaml:"password,omitempty"`
	From           string `json:"from,omitempty" yaml:"from,omitempty" validate:"omitempty,email"`
	Recipient      string `json:"recipient,omitempty" yaml:"recipient,omitempty" validate:"omitempty,email"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
}

// NewDefaultEmailConfig creates default email configuration. Credentials are never defaulted.
func NewDefaultEmailConfig() EmailConfig {
	return EmailConfig{
		SMTPHost:       DefaultSMTPHost,
		SMTPPort:       DefaultSMTPPort,
		TimeoutSeconds: DefaultSMTPTimeoutSeconds,
	}
}

// Address returns host:port of the mail relay
func (ec EmailConfig) Address() string {
	return net.JoinHostPort(ec.SMTPHost, strconv.Itoa(ec.SMTPPort))
}

// Sender returns the From address, falling back to the login name
func (ec EmailConfig) Sender() string {
	if ec.From != "" {
		return ec.From
	}
	return ec.Username
}

// Timeout returns the deadline applied to one whole SMTP session
func (ec EmailConfig) Timeout() time.Duration {
	return time.Duration(ec.TimeoutSeconds) * time.Second
}

// Ready reports which required field is missing for sending, or "" when complete.
func (ec EmailConfig) Ready() string {
	switch {
	case ec.Username == "":
		return "username"
	case ec.Password == "":
		return "password"
	case ec.Recipient == "":
		return "recipient"
	}
	return ""
}
