package notify

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"olstar_backend/internal/models"
	"olstar_backend/internal/phone"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"

	OutcomeSent = "sent"

	whatsappPrefix = "whatsapp:"
)

// Sender is the messaging provider.
type Sender interface {
	Send(ctx context.Context, from, to, body string) (string, error)
}

// Recorder observes per-channel outcomes (metrics).
type Recorder interface {
	Notification(channel string, ok bool)
}

// Report is the per-record result of a dispatch. SMS and WhatsApp hold
// "sent" or "failed:<reason>".
type Report struct {
	TransactionID string `json:"transactionID"`
	SMS           string `json:"sms"`
	WhatsApp      string `json:"whatsapp"`
}

// Dispatcher sends a schedule notification over both channels. The
// channels are independent: a failure on one is recorded and the other is
// still attempted.
type Dispatcher struct {
	sender      Sender
	from        string
	recorder    Recorder
	concurrency int
}

func NewDispatcher(sender Sender, from string, recorder Recorder, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{sender: sender, from: from, recorder: recorder, concurrency: concurrency}
}

// Notify sends body to phoneE164 on both channels. It reports false when
// the phone is empty and nothing was attempted.
func (d *Dispatcher) Notify(ctx context.Context, phoneE164, body string) (Report, bool) {
	if phoneE164 == "" {
		return Report{}, false
	}
	return Report{
		SMS:      d.send(ctx, ChannelSMS, d.from, phoneE164, body),
		WhatsApp: d.send(ctx, ChannelWhatsApp, whatsappPrefix+d.from, whatsappPrefix+phoneE164, body),
	}, true
}

// NotifySchedules formats and dispatches one notification per schedule,
// in parallel up to the configured concurrency. Schedules without a usable
// contact number produce no report. Reports keep the input order.
func (d *Dispatcher) NotifySchedules(ctx context.Context, schedules []models.Schedule) []Report {
	results := make([]*Report, len(schedules))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, s := range schedules {
		g.Go(func() error {
			to := phone.Normalize(s.ContactNumber.String())
			r, ok := d.Notify(ctx, to, FormatMessage(s))
			if ok {
				r.TransactionID = s.TransactionID.String()
				results[i] = &r
			}
			return nil
		})
	}
	_ = g.Wait()

	reports := make([]Report, 0, len(schedules))
	for _, r := range results {
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports
}

func (d *Dispatcher) send(ctx context.Context, channel, from, to, body string) string {
	sid, err := d.sender.Send(ctx, from, to, body)
	if d.recorder != nil {
		d.recorder.Notification(channel, err == nil)
	}
	log := logrus.WithFields(logrus.Fields{"channel": channel, "to": strings.TrimPrefix(to, whatsappPrefix)})
	if err != nil {
		log.WithError(err).Warn("notification failed")
		return "failed:" + err.Error()
	}
	log.WithField("sid", sid).Info("notification sent")
	return OutcomeSent
}
