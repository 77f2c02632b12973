package mail

import (
	"errors"
	"fmt"
	"log"
)

// ErrDeliveryExhausted is returned when every configured strategy failed.
var ErrDeliveryExhausted = errors.New("all delivery strategies failed")

// Sender is one outbound email transport in the fallback chain. Send returns
// the provider's message id on success.
type Sender interface {
	Name() string
	Send(m *Message) (string, error)
}

// Attempt records the result of one strategy for logging. Attempts are not
// persisted.
type Attempt struct {
	Provider string
	Err      error
}

// Delivery is the outcome of a successful pipeline run.
type Delivery struct {
	Provider  string
	MessageID string
	Attempts  []Attempt
}

// Pipeline tries senders in priority order and stops at the first success.
// Each strategy is wrapped independently so one provider's failure never
// blocks trying the next.
type Pipeline struct {
	senders []Sender
}

func NewPipeline(senders ...Sender) *Pipeline {
	return &Pipeline{senders: senders}
}

func (p *Pipeline) Deliver(m *Message) (*Delivery, error) {
	if len(p.senders) == 0 {
		return nil, fmt.Errorf("%w: no strategies configured", ErrDeliveryExhausted)
	}

	var attempts []Attempt
	var failures []error
	for _, s := range p.senders {
		id, err := s.Send(m)
		attempts = append(attempts, Attempt{Provider: s.Name(), Err: err})
		if err == nil {
			log.Printf("Email delivered via %s (message id %s)", s.Name(), id)
			return &Delivery{Provider: s.Name(), MessageID: id, Attempts: attempts}, nil
		}
		log.Printf("Delivery via %s failed: %v", s.Name(), err)
		failures = append(failures, fmt.Errorf("%s: %v", s.Name(), err))
	}

	return nil, fmt.Errorf("%w: %v", ErrDeliveryExhausted, errors.Join(failures...))
}
