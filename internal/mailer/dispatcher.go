package mailer

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/trailglobe/trailglobe/internal/logging"
	"github.com/trailglobe/trailglobe/internal/user"
)

// Dispatcher hands outbound mail to a background worker so a slow or failing
// mail collaborator never blocks the originating request. Enqueueing is
// fire-and-forget: when the queue is full the message is dropped and logged.
type Dispatcher struct {
	sender      Sender
	logger      *logging.Logger
	frontendURL string

	queue chan Message
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(sender Sender, logger *logging.Logger, frontendURL string, queueSize int) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		logger:      logger,
		frontendURL: frontendURL,
		queue:       make(chan Message, queueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.sender.Send(msg); err != nil {
			d.logger.Error("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
			continue
		}
		d.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	}
}

// SendVerification enqueues an email verification message for the user.
func (d *Dispatcher) SendVerification(u *user.User, token string) {
	link := fmt.Sprintf("%s/verify?token=%s&email=%s",
		d.frontendURL, url.QueryEscape(token), url.QueryEscape(u.Email))

	body, err := renderVerificationBody(u.Name, link)
	if err != nil {
		d.logger.Error("failed to render verification email", "email", u.Email, "error", err)
		return
	}

	d.enqueue(Message{To: u.Email, Subject: "Verify your email address", Body: body})
}

// SendReset enqueues a password reset message for the user.
func (d *Dispatcher) SendReset(u *user.User, token string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", d.frontendURL, url.QueryEscape(token))

	body, err := renderResetBody(u.Name, link)
	if err != nil {
		d.logger.Error("failed to render password reset email", "email", u.Email, "error", err)
		return
	}

	d.enqueue(Message{To: u.Email, Subject: "Reset your password", Body: body})
}

func (d *Dispatcher) enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("mail queue full, dropping message", "to", msg.To, "subject", msg.Subject)
	}
}

// Close stops accepting messages and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
