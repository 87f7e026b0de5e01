package campaign

import "context"

// Recipient is one entry in a campaign's ordered recipient list.
type Recipient struct {
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`

	// Fields carries extra personalization values ({{company}}, {{phone}},
	// ...) merged over the built-in name/email tokens.
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Request describes one campaign dispatch.
type Request struct {
	Subject     string      `json:"subject" yaml:"subject"`
	HTMLBody    string      `json:"html_body,omitempty" yaml:"html_body,omitempty"`
	TextBody    string      `json:"text_body,omitempty" yaml:"text_body,omitempty"`
	SenderName  string      `json:"sender_name" yaml:"sender_name"`
	SenderEmail string      `json:"sender_email" yaml:"sender_email"`
	Recipients  []Recipient `json:"recipients" yaml:"recipients"`
}

// Outcome records the result for a single recipient, in input order.
type Outcome struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result aggregates a campaign dispatch. SentCount+FailedCount always
// equals the number of recipients, and Outcomes preserves input order.
// Success means at least one email went out, independent of failures.
type Result struct {
	CampaignID  string    `json:"campaign_id"`
	Success     bool      `json:"success"`
	SentCount   int       `json:"sent_count"`
	FailedCount int       `json:"failed_count"`
	Outcomes    []Outcome `json:"outcomes"`
}

// Email is the normalized single-send message handed to a Sender.
type Email struct {
	To        string
	ToName    string
	From      string
	FromName  string
	Subject   string
	HTMLBody  string
	TextBody  string
}

// SendResult is the normalized provider response. A provider rejection
// surfaces here as Success=false with Error set, distinct from a transport
// error returned by Send itself; the dispatcher folds both into the same
// per-recipient failure shape.
type SendResult struct {
	Success   bool
	MessageID string
	Error     string
}

// Sender is the external single-email send primitive.
type Sender interface {
	Send(ctx context.Context, msg Email) (*SendResult, error)
}
