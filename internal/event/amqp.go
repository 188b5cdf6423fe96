package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type connector func() (channel, io.Closer, error)

// AMQPPublisher sends events to a durable queue on the default exchange as
// persistent JSON messages. Channels are not safe for concurrent publishing, so
// Publish is serialized. A connection lost to a broker restart is redialled on
// the next Publish; events published while the broker is down are lost.
type AMQPPublisher struct {
	mu      sync.Mutex
	connect connector
	conn    io.Closer
	ch      channel
	queue   string
	log     *zap.Logger
}

func NewAMQPPublisher(url, queue string, log *zap.Logger) (*AMQPPublisher, error) {
	p := newAMQPPublisher(dialer(url, queue), queue, log)
	if err := p.reconnect(); err != nil {
		return nil, err
	}
	return p, nil
}

func newAMQPPublisher(connect connector, queue string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		connect: connect,
		queue:   queue,
		log:     log.With(zap.String("publisher", "amqp"), zap.String("queue", queue)),
	}
}

func dialer(url, queue string) connector {
	return func() (channel, io.Closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("dial broker: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open channel: %w", err)
		}

		if _, err := ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
		}
		return ch, conn, nil
	}
}

// reconnect replaces the current connection. Callers hold p.mu, except the constructor.
func (p *AMQPPublisher) reconnect() error {
	p.drop()
	ch, conn, err := p.connect()
	if err != nil {
		return err
	}
	p.ch, p.conn = ch, conn
	return nil
}

func (p *AMQPPublisher) drop() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e BookingEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(e.Type),
		MessageId:    e.BookingID + ":" + string(e.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publish(ctx, msg)
	if errors.Is(err, amqp.ErrClosed) {
		p.log.Warn("Broker connection closed, reconnecting", zap.String("booking_id", e.BookingID))
		p.ch = nil
		err = p.publish(ctx, msg)
	}
	if err != nil {
		p.log.Error("Failed to publish event",
			zap.Error(err),
			zap.String("type", string(e.Type)),
			zap.String("booking_id", e.BookingID),
		)
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, msg amqp.Publishing) error {
	if p.ch == nil || p.ch.IsClosed() {
		if err := p.reconnect(); err != nil {
			return err
		}
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return errors.Join(errs...)
}
