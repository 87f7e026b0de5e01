package campaign

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeSender scripts per-recipient behavior keyed by destination address.
type fakeSender struct {
	sent    []Email
	failOn  map[string]string // address -> provider rejection message
	errOn   map[string]error  // address -> transport error
	panicOn map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, msg Email) (*SendResult, error) {
	if f.panicOn[msg.To] {
		panic("sender blew up")
	}
	if err := f.errOn[msg.To]; err != nil {
		return nil, err
	}
	f.sent = append(f.sent, msg)
	if reason, ok := f.failOn[msg.To]; ok {
		return &SendResult{Success: false, Error: reason}, nil
	}
	return &SendResult{Success: true, MessageID: "msg-" + msg.To}, nil
}

// noDelay removes the inter-send throttle for deterministic tests.
func noDelay() Option {
	return WithLimiter(rate.NewLimiter(rate.Inf, 1))
}

func recipients(emails ...string) []Recipient {
	rs := make([]Recipient, len(emails))
	for i, e := range emails {
		rs[i] = Recipient{Email: e}
	}
	return rs
}

func TestSendCampaign_AllSucceed(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, noDelay())

	result, err := d.SendCampaign(context.Background(), Request{
		Subject:     "Hola",
		SenderEmail: "ventas@ritter.es",
		Recipients:  recipients("a@x.es", "b@x.es", "c@x.es"),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.SentCount)
	assert.Zero(t, result.FailedCount)
	assert.NotEmpty(t, result.CampaignID)

	require.Len(t, result.Outcomes, 3)
	for i, email := range []string{"a@x.es", "b@x.es", "c@x.es"} {
		assert.Equal(t, email, result.Outcomes[i].Email)
		assert.True(t, result.Outcomes[i].Success)
		assert.Equal(t, "msg-"+email, result.Outcomes[i].MessageID)
	}
}

func TestSendCampaign_MiddleRecipientErrorIsIsolated(t *testing.T) {
	sender := &fakeSender{errOn: map[string]error{
		"b@x.es": eris.New("dial tcp: connection refused"),
	}}
	d := NewDispatcher(sender, noDelay())

	result, err := d.SendCampaign(context.Background(), Request{
		Subject:     "Hola",
		SenderEmail: "ventas@ritter.es",
		Recipients:  recipients("a@x.es", "b@x.es", "c@x.es"),
	})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	assert.True(t, result.Outcomes[0].Success)
	assert.False(t, result.Outcomes[1].Success)
	assert.Contains(t, result.Outcomes[1].Error, "connection refused")
	assert.True(t, result.Outcomes[2].Success)

	assert.Equal(t, 2, result.SentCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.True(t, result.Success)
}

func TestSendCampaign_ProviderRejectionRecorded(t *testing.T) {
	sender := &fakeSender{failOn: map[string]string{
		"bad@x.es": "invalid recipient address",
	}}
	d := NewDispatcher(sender, noDelay())

	result, err := d.SendCampaign(context.Background(), Request{
		Subject:    "Hola",
		Recipients: recipients("bad@x.es", "ok@x.es"),
	})
	require.NoError(t, err)

	assert.False(t, result.Outcomes[0].Success)
	assert.Equal(t, "invalid recipient address", result.Outcomes[0].Error)
	assert.True(t, result.Outcomes[1].Success)
}

func TestSendCampaign_PanickingSenderIsIsolated(t *testing.T) {
	sender := &fakeSender{panicOn: map[string]bool{"boom@x.es": true}}
	d := NewDispatcher(sender, noDelay())

	result, err := d.SendCampaign(context.Background(), Request{
		Subject:    "Hola",
		Recipients: recipients("a@x.es", "boom@x.es", "c@x.es"),
	})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	assert.False(t, result.Outcomes[1].Success)
	assert.Contains(t, result.Outcomes[1].Error, "sender panic")
	assert.Equal(t, 2, result.SentCount)
}

func TestSendCampaign_AllFailedMeansNoSuccess(t *testing.T) {
	sender := &fakeSender{errOn: map[string]error{
		"a@x.es": eris.New("down"),
		"b@x.es": eris.New("down"),
	}}
	d := NewDispatcher(sender, noDelay())

	result, err := d.SendCampaign(context.Background(), Request{
		Subject:    "Hola",
		Recipients: recipients("a@x.es", "b@x.es"),
	})
	require.NoError(t, err, "total failure is reported on the result, not as an error")

	assert.False(t, result.Success)
	assert.Zero(t, result.SentCount)
	assert.Equal(t, 2, result.FailedCount)
}

func TestSendCampaign_EmptyRecipientList(t *testing.T) {
	d := NewDispatcher(&fakeSender{}, noDelay())

	result, err := d.SendCampaign(context.Background(), Request{Subject: "Hola"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Empty(t, result.Outcomes)
	assert.Zero(t, result.SentCount+result.FailedCount)
}

func TestSendCampaign_PersonalizesPerRecipient(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, noDelay())

	_, err := d.SendCampaign(context.Background(), Request{
		Subject:     "Oferta para {{company}}",
		HTMLBody:    "<p>Hola {{name}}</p>",
		TextBody:    "Hola {{name}}, escríbenos a {{email}}",
		SenderEmail: "ventas@ritter.es",
		SenderName:  "Equipo Ritter",
		Recipients: []Recipient{
			{Email: "ana@acme.es", Name: "Ana", Fields: map[string]string{"company": "Acme"}},
			{Email: "luis@beta.es", Name: "Luis", Fields: map[string]string{"company": "Beta"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "Oferta para Acme", sender.sent[0].Subject)
	assert.Equal(t, "<p>Hola Ana</p>", sender.sent[0].HTMLBody)
	assert.Equal(t, "Hola Ana, escríbenos a ana@acme.es", sender.sent[0].TextBody)
	assert.Equal(t, "Oferta para Beta", sender.sent[1].Subject)
	assert.Equal(t, "Equipo Ritter", sender.sent[1].FromName)
}

func TestSendCampaign_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context surfaces as an error once the throttle is hit.
	d := NewDispatcher(&fakeSender{}, WithLimiter(rate.NewLimiter(rate.Every(1), 1)))
	_, err := d.SendCampaign(ctx, Request{Recipients: recipients("a@x.es", "b@x.es")})
	assert.Error(t, err)
}
