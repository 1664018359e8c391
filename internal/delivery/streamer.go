// Package delivery sends templated transactional email to mailing-list
// entries through the Mailtrap sending API. Fire-and-forget over a small
// in-memory list: no retry, no rate limiting, no queueing.
package delivery

import (
	"context"
	"fmt"

	"github.com/innosearch/contact-sync/internal/config"
	"github.com/innosearch/contact-sync/internal/mailtrap"
	"github.com/innosearch/contact-sync/internal/pkg/logger"
	"github.com/innosearch/contact-sync/internal/store"
)

// Sender is the Mailtrap surface the streamer needs. *mailtrap.Client
// satisfies it; tests substitute a stub.
type Sender interface {
	Send(ctx context.Context, mail *mailtrap.Mail) (*mailtrap.SendResponse, error)
}

// SendStatus records the per-recipient outcome of an individual-mode run.
type SendStatus struct {
	Email string
	Sent  bool
	Err   error
}

// Streamer drives templated sends for a configured sender and template.
type Streamer struct {
	client       Sender
	from         mailtrap.Address
	templateUUID string
}

// NewStreamer creates a streamer from the mailtrap configuration.
func NewStreamer(client Sender, cfg config.MailtrapConfig) *Streamer {
	return &Streamer{
		client:       client,
		from:         mailtrap.Address{Email: cfg.SenderEmail, Name: cfg.SenderName},
		templateUUID: cfg.TemplateUUID,
	}
}

// SendIndividual makes one send call per entry, populating the per-recipient
// name variable. A failed call is logged and recorded; the loop always
// continues to the next recipient.
func (s *Streamer) SendIndividual(ctx context.Context, entries []*store.Entry) []SendStatus {
	statuses := make([]SendStatus, 0, len(entries))
	for _, e := range entries {
		mail := &mailtrap.Mail{
			From:         s.from,
			To:           []mailtrap.Address{{Email: e.Email}},
			TemplateUUID: s.templateUUID,
			Variables:    map[string]interface{}{"name": e.FirstName.String},
		}

		resp, err := s.client.Send(ctx, mail)
		if err == nil && !resp.Success {
			err = fmt.Errorf("send rejected: success=false")
		}
		if err != nil {
			logger.Error("delivery: send failed", "email", e.Email, "error", err)
			statuses = append(statuses, SendStatus{Email: e.Email, Err: err})
			continue
		}
		logger.Info("delivery: email sent", "email", e.Email)
		statuses = append(statuses, SendStatus{Email: e.Email, Sent: true})
	}
	return statuses
}

// SendBatch makes a single multi-recipient send with no per-recipient
// variable substitution.
func (s *Streamer) SendBatch(ctx context.Context, entries []*store.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	to := make([]mailtrap.Address, 0, len(entries))
	for _, e := range entries {
		to = append(to, mailtrap.Address{Email: e.Email})
	}

	resp, err := s.client.Send(ctx, &mailtrap.Mail{
		From:         s.from,
		To:           to,
		TemplateUUID: s.templateUUID,
	})
	if err != nil {
		return fmt.Errorf("batch send: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("batch send rejected: success=false")
	}
	logger.Info("delivery: batch sent", "recipients", len(entries))
	return nil
}
