package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washday/laundry-backend/pkg/config"
)

type stubEmails struct {
	got *resend.SendEmailRequest
	err error
}

func (s *stubEmails) SendWithContext(_ context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &resend.SendEmailResponse{Id: "em_123"}, nil
}

func TestResendSenderSend(t *testing.T) {
	stub := &stubEmails{}
	s := &ResendSender{emails: stub, from: "Laundry <noreply@washday.app>"}

	id, err := s.Send(context.Background(), Message{
		To:      []string{"jane@example.com"},
		Subject: "Order Confirmation",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "em_123", id)
	assert.Equal(t, "Laundry <noreply@washday.app>", stub.got.From)
	assert.Equal(t, []string{"jane@example.com"}, stub.got.To)
	assert.Equal(t, "<p>hi</p>", stub.got.Html)
}

func TestResendSenderPropagatesErrors(t *testing.T) {
	s := &ResendSender{emails: &stubEmails{err: errors.New("rate limited")}}
	_, err := s.Send(context.Background(), Message{To: []string{"a@b.co"}, Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestMessageValidation(t *testing.T) {
	s := &ResendSender{emails: &stubEmails{}}
	cases := []Message{
		{Subject: "s", Text: "t"},
		{To: []string{" "}, Subject: "s", Text: "t"},
		{To: []string{"a@b.co"}, Text: "t"},
		{To: []string{"a@b.co"}, Subject: "s"},
	}
	for _, msg := range cases {
		_, err := s.Send(context.Background(), msg)
		assert.Error(t, err, "%+v", msg)
	}
}

func TestNewSenderWithoutKeyIsLogOnly(t *testing.T) {
	sender := NewSender(config.ResendConfig{}, nil)
	_, ok := sender.(LogOnly)
	require.True(t, ok, "expected LogOnly, got %T", sender)

	id, err := sender.Send(context.Background(), Message{To: []string{"a@b.co"}, Subject: "s", Text: "t"})
	require.NoError(t, err)
	assert.Empty(t, id)
}
