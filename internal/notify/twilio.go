package notify

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends messages through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

// Send creates one message and returns its SID. The SDK call takes no
// context, so it runs in a goroutine and ctx bounds how long we wait.
func (t *TwilioSender) Send(ctx context.Context, from, to, body string) (string, error) {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	type result struct {
		sid string
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := t.client.Api.CreateMessage(params)
		if err != nil {
			done <- result{err: err}
			return
		}
		if msg.Sid == nil {
			done <- result{err: errors.New("twilio returned no message sid")}
			return
		}
		done <- result{sid: *msg.Sid}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.sid, r.err
	}
}
