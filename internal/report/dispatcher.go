// Package report renders client profiles and delivers them to the designer.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

// DispatchError wraps a failed delivery
type DispatchError struct {
	Transport string
	Recipient string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via %s to %s: %v", e.Transport, e.Recipient, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Dispatcher renders a profile report and hands it to a Sender
type Dispatcher struct {
	renderer  *Renderer
	sender    Sender
	from      *mail.Address
	recipient *mail.Address
	domain    string
	now       func() time.Time
}

// NewDispatcher creates a Dispatcher sending from senderEmail (displayed as
// senderName) to recipient.
func NewDispatcher(sender Sender, senderName, senderEmail, recipient string) (*Dispatcher, error) {
	renderer, err := NewRenderer(senderName)
	if err != nil {
		return nil, err
	}

	domain := "interior-ai-service"
	if addr, err := mail.ParseAddress(senderEmail); err == nil {
		if at := strings.LastIndexByte(addr.Address, '@'); at >= 0 {
			domain = addr.Address[at+1:]
		}
	}

	return &Dispatcher{
		renderer:  renderer,
		sender:    sender,
		from:      &mail.Address{Name: senderName, Address: senderEmail},
		recipient: &mail.Address{Address: recipient},
		domain:    domain,
		now:       time.Now,
	}, nil
}

// Send renders and delivers one report. It makes a single delivery attempt.
func (d *Dispatcher) Send(ctx context.Context, profile *models.ClientProfile) (*models.DispatchReceipt, error) {
	rendered, err := d.renderer.Render(profile)
	if err != nil {
		return nil, &DispatchError{Transport: d.sender.Name(), Recipient: d.recipient.Address, Err: err}
	}

	sentAt := d.now().UTC()
	messageID := fmt.Sprintf("%s@%s", uuid.NewString(), d.domain)

	msg, err := BuildMessage(d.from, []*mail.Address{d.recipient}, messageID, sentAt, rendered)
	if err != nil {
		return nil, &DispatchError{Transport: d.sender.Name(), Recipient: d.recipient.Address, Err: err}
	}

	id, err := d.sender.Send(ctx, msg)
	if err != nil {
		return nil, &DispatchError{Transport: d.sender.Name(), Recipient: d.recipient.Address, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"message_id": profile.SourceMessageID,
		"email_id":   id,
		"recipient":  d.recipient.Address,
		"transport":  d.sender.Name(),
	}).Info("Client profile report sent")

	return &models.DispatchReceipt{
		ID:        id,
		Recipient: d.recipient.Address,
		Subject:   rendered.Subject,
		Transport: d.sender.Name(),
		SentAt:    sentAt,
	}, nil
}
