package track

import (
	"github.com/sirupsen/logrus"

	"example.com/cart-widget/internal/usecase/widget"
)

// Emitter records instrumentation events on the structured log. The
// actual analytics transport lives outside this module; the emitter is
// the fire-and-forget boundary the controller talks to.
type Emitter struct {
	log logrus.FieldLogger
}

var _ widget.Tracker = (*Emitter)(nil)

func NewEmitter(log logrus.FieldLogger) *Emitter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Emitter{log: log}
}

func (e *Emitter) Track(event string, props map[string]any) {
	e.log.WithFields(logrus.Fields(props)).Info(event)
}
