package email_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
)

type fakePostmark struct {
	got  postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (f *fakePostmark) SendEmail(_ context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	f.got = e
	return f.resp, f.err
}

var validConfig = email.Config{
	PostmarkServerToken:  "server",
	PostmarkAccountToken: "account",
	SenderEmail:          "noreply@example.com",
	SupportEmail:         "support@example.com",
}

func TestNewPostmarkClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *email.Config)
	}{
		{name: "missing server token", mutate: func(c *email.Config) { c.PostmarkServerToken = "" }},
		{name: "missing account token", mutate: func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{name: "invalid sender", mutate: func(c *email.Config) { c.SenderEmail = "noreply" }},
		{name: "missing support", mutate: func(c *email.Config) { c.SupportEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig
			tt.mutate(&cfg)
			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Panics(t, func() { email.MustNewPostmarkClient(cfg) })
		})
	}

	client, err := email.NewPostmarkClient(validConfig)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestPostmarkSender_SendEmail(t *testing.T) {
	t.Parallel()

	api := &fakePostmark{resp: postmark.EmailResponse{MessageID: "pm-123"}}
	sender, err := email.NewPostmarkSender(api, validConfig)
	require.NoError(t, err)

	id, err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo: "user@example.com", Subject: "Hello", BodyHTML: "<p>hi</p>", Tag: "welcome",
	})
	require.NoError(t, err)
	assert.Equal(t, "pm-123", id)
	assert.Equal(t, "noreply@example.com", api.got.From)
	assert.Equal(t, "support@example.com", api.got.ReplyTo)
	assert.Equal(t, "welcome", api.got.Tag)
	assert.True(t, api.got.TrackOpens)
}

func TestPostmarkSender_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		api  *fakePostmark
	}{
		{name: "network error", api: &fakePostmark{err: errors.New("timeout")}},
		{name: "api error code", api: &fakePostmark{resp: postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender, err := email.NewPostmarkSender(tt.api, validConfig)
			require.NoError(t, err)

			_, err = sender.SendEmail(context.Background(), email.SendEmailParams{
				SendTo: "user@example.com", Subject: "Hello", BodyHTML: "<p>hi</p>",
			})
			assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
			assert.True(t, errs.IsTransient(err))
		})
	}
}

func TestPostmarkSender_ValidatesBeforeSending(t *testing.T) {
	t.Parallel()

	api := &fakePostmark{}
	sender, err := email.NewPostmarkSender(api, validConfig)
	require.NoError(t, err)

	_, err = sender.SendEmail(context.Background(), email.SendEmailParams{SendTo: "bad"})
	assert.True(t, errs.IsInvalid(err))
	assert.Empty(t, api.got.To)
}
