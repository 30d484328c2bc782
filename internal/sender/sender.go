// internal/sender/sender.go
package sender

import (
	"context"
	"errors"
	"fmt"
)

// EmailMessage is the uniform email send contract.
type EmailMessage struct {
	To       string
	From     string
	FromName string
	Subject  string
	Text     string
	HTML     string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSResult is the uniform SMS send outcome. ErrorCode carries the provider
// code when the send was rejected.
type SMSResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

type SMSSender interface {
	Send(ctx context.Context, to, body, mediaURL string) (SMSResult, error)
}

// PermanentBlockError marks a provider signal that means the contact must
// never be sent to again (carrier block, hard bounce, blacklist).
type PermanentBlockError struct {
	Code    string
	Message string
}

func (e *PermanentBlockError) Error() string {
	return fmt.Sprintf("permanently blocked (%s): %s", e.Code, e.Message)
}

// IsPermanentBlock reports whether an email send error is a permanent-block
// signal.
func IsPermanentBlock(err error) bool {
	var b *PermanentBlockError
	return errors.As(err, &b)
}

// Provider codes that mean the destination is permanently unreachable or has
// revoked consent at the carrier level.
var permanentBlockCodes = map[string]bool{
	"21610": true, // recipient has opted out with the carrier
	"30004": true, // message blocked by recipient
	"30006": true, // landline or unreachable carrier
	"550":   true, // smtp permanent failure / hard bounce
}

// IsPermanentBlockCode reports whether an SMS provider error code is a
// permanent-block signal.
func IsPermanentBlockCode(code string) bool {
	return permanentBlockCodes[code]
}
