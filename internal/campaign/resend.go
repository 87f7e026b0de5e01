package campaign

import (
	"context"
	"fmt"

	"github.com/ritter-digital/leads-cli/pkg/resend"
)

// ResendSender adapts the Resend client to the Sender interface.
type ResendSender struct {
	client resend.Client
}

// NewResendSender wraps a Resend client as a campaign Sender.
func NewResendSender(client resend.Client) *ResendSender {
	return &ResendSender{client: client}
}

func (s *ResendSender) Send(ctx context.Context, msg Email) (*SendResult, error) {
	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	resp, err := s.client.SendEmail(ctx, resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	})
	if err != nil {
		return nil, err
	}

	return &SendResult{
		Success:   resp.Success,
		MessageID: resp.ID,
		Error:     resp.Error,
	}, nil
}
