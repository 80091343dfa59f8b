package notifier

import (
	"errors"
	"fmt"
)

// Stage names the step of an alert delivery that failed.
type Stage string

const (
	StageCompose  Stage = "compose"
	StageConnect  Stage = "connect"
	StageStartTLS Stage = "starttls"
	StageAuth     Stage = "auth"
	StageEnvelope Stage = "envelope"
	StageData     Stage = "data"
)

// ErrStartTLSUnsupported is returned when the relay does not offer STARTTLS.
var ErrStartTLSUnsupported = errors.New("server does not advertise STARTTLS")

// SendError describes a failed alert delivery.
type SendError struct {
	Stage    Stage
	Sequence int
	Err      error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("smtp %s: %v", e.Stage, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

func newSendError(stage Stage, err error) *SendError {
	return &SendError{Stage: stage, Err: err}
}
