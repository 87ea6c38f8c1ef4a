// Package email sends the notification pipeline's transactional mail.
//
// EmailSender is the provider abstraction. NewPostmarkClient sends through
// Postmark with open and link tracking; NewDevSender writes each message as an
// HTML file plus JSON metadata into a directory for local inspection. Both
// validate SendEmailParams first and return a delivery identifier.
//
// Transport exposes one named operation per template family (Welcome,
// PasswordReset, TaskReminder, Digest, Notification). It renders the templ
// components from the templates subpackage and hands the HTML to the sender.
//
//	sender := email.MustNewPostmarkClient(cfg)
//	transport := email.NewTransport(sender, email.WithAppURL(cfg.AppURL))
//
//	id, err := transport.TaskReminder(ctx, email.Recipient{Email: u.Email, Name: u.Name}, email.TaskSummary{
//	    ID:      "t1",
//	    Title:   "Quarterly report",
//	    DueDate: "tomorrow",
//	})
//
// Provider and network failures are returned as errs.Transient wrapping
// ErrFailedToSendEmail; invalid parameters as errs.Invalid.
package email
