package notify

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"meetify/domain"
)

// Writer stores one notification document.
type Writer interface {
	Create(ctx context.Context, n domain.Notification) error
}

const (
	queueSize       = 64
	deliverAttempts = 3
	deliverTimeout  = 10 * time.Second
	retryInterval   = 500 * time.Millisecond
)

// Dispatcher delivers notifications on a best-effort basis. Notify
// queues and returns immediately; a single worker writes with bounded
// retry. A full queue or exhausted retries drops the notification
// with a log line; notification failure must never fail the action
// that triggered it.
type Dispatcher struct {
	writer Writer
	log    *logrus.Logger
	queue  chan domain.Notification
	done   chan struct{}
}

// NewDispatcher starts the delivery worker.
func NewDispatcher(writer Writer, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan domain.Notification, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify queues n for delivery without blocking.
func (d *Dispatcher) Notify(n domain.Notification) {
	select {
	case d.queue <- n:
	default:
		d.log.WithField("recipient", n.RecipientID).Warn("notification dropped: queue full")
	}
}

// Close stops accepting notifications and waits for the queue to
// drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	op := func() error {
		err := d.writer.Create(ctx, n)
		if err != nil && !errors.Is(err, domain.ErrTransient) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), deliverAttempts-1),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"recipient": n.RecipientID,
			"kind":      n.Kind,
		}).Warn("notification dropped after retries")
	}
}
