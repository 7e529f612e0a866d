package audit

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Event struct {
	UserID   *uint
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink persists one audit event.
type Sink interface {
	Log(ev Event) error
}

type Dispatcher struct {
	sink  Sink
	log   *logrus.Logger
	queue chan Event

	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(sink Sink, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			d.log.WithError(err).WithField("action", ev.Action).Error("audit write failed")
		}
	}
}

// Dispatch never blocks the request: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains queued events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
