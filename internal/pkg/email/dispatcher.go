// internal/pkg/email/dispatcher.go
package email

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher runs email jobs off the request path. Failures are logged and
// never reach the caller.
type Dispatcher struct {
	logger  *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher whose jobs are bounded by timeout
func NewDispatcher(logger *logrus.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{logger: logger, timeout: timeout}
}

// Dispatch runs job in its own goroutine with a fresh context
func (d *Dispatcher) Dispatch(kind EmailType, to string, job func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := job(ctx); err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"type": kind,
				"to":   to,
			}).Error("Failed to send email")
			return
		}

		d.logger.WithFields(logrus.Fields{
			"type": kind,
			"to":   to,
		}).Debug("Email sent")
	}()
}

// Wait blocks until in-flight jobs finish or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
