package rabbitmq

import (
	"context"
	"encoding/json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"shortdrama/config"
	"shortdrama/dto"
	"sync"
)

// Publisher announces job lifecycle changes. The job table stays the source
// of truth; events only let workers poll earlier.
type Publisher interface {
	Publish(ctx context.Context, event dto.JobEvent) error
}

type publisher struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQ

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) Publisher {
	return &publisher{conn: conn, cfg: cfg}
}

func (p *publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(p.cfg.ExchangeName, p.cfg.Kind, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *publisher) Publish(ctx context.Context, event dto.JobEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("exchange", p.cfg.ExchangeName).Msg("failed to open channel")
		return err
	}

	return ch.PublishWithContext(ctx, p.cfg.ExchangeName, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}

type noop struct{}

// NewNoop is used when no broker is configured.
func NewNoop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, dto.JobEvent) error {
	return nil
}
