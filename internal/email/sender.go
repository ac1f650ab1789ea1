package email

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sender define la interfaz para envio del codigo MFA.
type Sender interface {
	SendMFACode(ctx context.Context, toEmail string, code string, expiresAt time.Time) error
}

// ErrDisabled se devuelve cuando el envio de correos esta apagado.
var ErrDisabled = errors.New("email sender disabled")

const mfaSubject = "Your MFA Code"

func mfaBody(code string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Your one-time MFA code is: %s\nIt expires at %s UTC.\n",
		code,
		expiresAt.UTC().Format(time.RFC3339),
	)
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendMFACode(_ context.Context, _ string, _ string, _ time.Time) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return fmt.Errorf("%w: %s", ErrDisabled, s.reason)
}
