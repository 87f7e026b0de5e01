// Package campaign implements the bulk email dispatch engine: sequential
// per-recipient personalization and sending with client-side throttling and
// partial-failure aggregation.
package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// defaultSendInterval spaces consecutive sends to stay under provider
// burst limits.
const defaultSendInterval = 100 * time.Millisecond

// Dispatcher sends campaigns through a Sender, one recipient at a time.
type Dispatcher struct {
	sender  Sender
	limiter *rate.Limiter
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSendInterval overrides the inter-send spacing.
func WithSendInterval(d time.Duration) Option {
	return func(dp *Dispatcher) {
		dp.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLimiter injects a rate limiter directly. Tests pass an unlimited one
// to run without real delays.
func WithLimiter(l *rate.Limiter) Option {
	return func(dp *Dispatcher) {
		dp.limiter = l
	}
}

// NewDispatcher creates a Dispatcher with the default 100ms send spacing.
func NewDispatcher(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Every(defaultSendInterval), 1),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// SendCampaign dispatches the request sequentially in recipient order. A
// failed or rejected send is recorded and never aborts the loop; the only
// error return is context cancellation while waiting to send. The result
// always holds one outcome per recipient, in order.
func (d *Dispatcher) SendCampaign(ctx context.Context, req Request) (*Result, error) {
	result := &Result{
		CampaignID: uuid.New().String(),
		Outcomes:   make([]Outcome, 0, len(req.Recipients)),
	}

	log := zap.L().With(
		zap.String("campaign_id", result.CampaignID),
		zap.String("subject", req.Subject),
		zap.Int("recipients", len(req.Recipients)),
	)
	log.Info("campaign: dispatch started")

	for i, r := range req.Recipients {
		if i > 0 {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "campaign: throttle wait")
			}
		}

		fields := personalizationFields(r)
		msg := Email{
			To:       r.Email,
			ToName:   r.Name,
			From:     req.SenderEmail,
			FromName: req.SenderName,
			Subject:  Personalize(req.Subject, fields),
			HTMLBody: Personalize(req.HTMLBody, fields),
			TextBody: Personalize(req.TextBody, fields),
		}

		outcome := Outcome{Email: r.Email}
		res, err := d.sendOne(ctx, msg)
		switch {
		case err != nil:
			outcome.Error = err.Error()
			log.Warn("campaign: send failed", zap.String("to", r.Email), zap.Error(err))
		case !res.Success:
			outcome.Error = res.Error
			log.Warn("campaign: send rejected", zap.String("to", r.Email), zap.String("error", res.Error))
		default:
			outcome.Success = true
			outcome.MessageID = res.MessageID
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	for _, o := range result.Outcomes {
		if o.Success {
			result.SentCount++
		} else {
			result.FailedCount++
		}
	}
	result.Success = result.SentCount > 0

	log.Info("campaign: dispatch finished",
		zap.Int("sent", result.SentCount),
		zap.Int("failed", result.FailedCount),
	)
	return result, nil
}

// sendOne isolates a single send so a panicking Sender implementation is
// recorded as that recipient's failure instead of killing the batch.
func (d *Dispatcher) sendOne(ctx context.Context, msg Email) (res *SendResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = eris.Errorf("campaign: sender panic: %v", r)
		}
	}()
	return d.sender.Send(ctx, msg)
}
