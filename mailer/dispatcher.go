package mailer

import (
	"sync"

	"github.com/ozclean/cleaning-app/utils"
)

type job struct {
	Template Template
	To       string
	Fields   Fields
}

// Dispatcher delivers emails off the request path. Sends are best-effort:
// a full queue drops the email and a delivery failure is only logged, so
// the triggering transition is never blocked or rolled back.
type Dispatcher struct {
	sender Sender
	queue  chan job
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan job, 100),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		subject, html, text := Render(j.Template, j.Fields)
		if err := d.sender.Send(j.To, subject, html, text); err != nil {
			utils.ErrorLogger.Printf("mailer: send %s to %s failed: %v", j.Template, j.To, err)
		}
	}
}

// Send enqueues an email. Never blocks.
func (d *Dispatcher) Send(tmpl Template, to string, fields Fields) {
	select {
	case d.queue <- job{Template: tmpl, To: to, Fields: fields}:
	default:
		utils.ErrorLogger.Printf("mailer: queue full, dropping %s to %s", tmpl, to)
	}
}

// Stop drains the queue and stops the worker. Only called on shutdown.
func (d *Dispatcher) Stop() {
	close(d.queue)
	d.wg.Wait()
}

var (
	defaultDispatcher *Dispatcher
	initOnce          sync.Once
)

// Default returns the process-wide dispatcher backed by the Resend sender.
func Default() *Dispatcher {
	initOnce.Do(func() {
		defaultDispatcher = NewDispatcher(NewResendSender())
	})
	return defaultDispatcher
}
