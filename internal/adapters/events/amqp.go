package events

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishTimeout = 5 * time.Second
	// redialBackoff is how long publishes fail fast after a failed dial.
	redialBackoff = time.Second
)

var errPublisherClosed = errors.New("AMQP publisher closed")

// publishChannel is the part of *amqp091.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc connects to the broker and returns a channel on a declared exchange.
type dialFunc func(url, exchange string, logger *zap.Logger) (io.Closer, publishChannel, error)

// AMQPPublisher sends record events to a direct exchange, routed by event type.
// A channel or connection closed by the broker is redialed on the next publish.
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *zap.Logger
	dial     dialFunc

	mu         sync.Mutex
	conn       io.Closer
	channel    publishChannel
	dialFailed time.Time
	closed     bool
}

var _ portssvc.EventPublisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials url and declares a durable direct exchange.
func NewAMQPPublisher(url, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	return newPublisher(url, exchange, logger, dialBroker)
}

func newPublisher(url, exchange string, logger *zap.Logger, dial dialFunc) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, logger: logger, dial: dial}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialBroker(url, exchange string, logger *zap.Logger) (io.Closer, publishChannel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dial AMQP")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, errors.Wrap(err, "open channel")
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, errors.Wrap(err, "declare exchange")
	}

	// the channel closes with its connection, so one watcher covers both
	closes := channel.NotifyClose(make(chan *amqp091.Error, 1))
	go func() {
		if amqpErr, ok := <-closes; ok && amqpErr != nil {
			logger.Warn("AMQP channel closed, will redial on next publish",
				zap.Int("code", amqpErr.Code),
				zap.String("reason", amqpErr.Reason))
		}
	}()

	return conn, channel, nil
}

// connectLocked returns the live channel, dialing a new one when the broker
// closed the previous one. p.mu must be held.
func (p *AMQPPublisher) connectLocked() (publishChannel, error) {
	if p.closed {
		return nil, errPublisherClosed
	}
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	if p.conn != nil {
		_ = p.conn.Close()
		p.conn, p.channel = nil, nil
	}
	if !p.dialFailed.IsZero() && time.Since(p.dialFailed) < redialBackoff {
		return nil, errors.New("AMQP connection lost, redial pending")
	}

	conn, channel, err := p.dial(p.url, p.exchange, p.logger)
	if err != nil {
		p.dialFailed = time.Now()
		return nil, err
	}
	p.conn, p.channel = conn, channel
	p.dialFailed = time.Time{}
	p.logger.Info("AMQP publisher connected", zap.String("exchange", p.exchange))
	return channel, nil
}

// Publish sends event as a persistent JSON message. A publish that fails
// because the channel was closed underneath it is retried once on a new one.
func (p *AMQPPublisher) Publish(ctx context.Context, event domain.RecordEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		MessageId:    event.RecordID + ":" + event.Type,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; ; attempt++ {
		channel, err := p.connectLocked()
		if err != nil {
			return errors.Wrapf(err, "publish %s", event.Type)
		}

		err = channel.PublishWithContext(
			ctx,
			p.exchange, // exchange
			event.Type, // routing key
			false,      // mandatory
			false,      // immediate
			msg,
		)
		if err == nil {
			break
		}
		if attempt > 0 || !channel.IsClosed() {
			return errors.Wrapf(err, "publish %s", event.Type)
		}
	}

	p.logger.Debug("published record event",
		zap.String("type", event.Type),
		zap.String("record_id", event.RecordID),
		zap.String("exchange", p.exchange))
	return nil
}

// Close releases the channel and connection. Later publishes fail.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn, p.channel = nil, nil
		return err
	}
	return nil
}
