package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
)

// EmailSender sends one email and returns the provider's message id.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) (string, error)
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidAddress reports whether s looks like a deliverable address.
func ValidAddress(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// Validate checks the required fields. The error has kind errs.KindInvalid.
func (p SendEmailParams) Validate() error {
	const op = "email.SendEmailParams.Validate"
	switch {
	case strings.TrimSpace(p.SendTo) == "":
		return errs.Invalid(op, fmt.Errorf("%w: SendTo is required", ErrInvalidParams))
	case !ValidAddress(p.SendTo):
		return errs.Invalid(op, fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams))
	case strings.TrimSpace(p.Subject) == "":
		return errs.Invalid(op, fmt.Errorf("%w: Subject is required", ErrInvalidParams))
	case strings.TrimSpace(p.BodyHTML) == "":
		return errs.Invalid(op, fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams))
	}
	return nil
}
