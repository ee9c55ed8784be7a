package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the topic exchange carrying tracking events.
	ExchangeName = "pacer.tracking.events"

	// DefaultQueueName is the durable queue of the worker's consumers.
	DefaultQueueName = "pacer.worker"
)

// dialExchange opens a channel and declares the durable topic exchange.
func dialExchange(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return conn, ch, nil
}

func closeAMQP(conn *amqp.Connection, ch *amqp.Channel, logger *slog.Logger) error {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Warn("error closing channel", "error", err)
		}
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// RabbitMQPublisher publishes envelopes to the tracking exchange.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewRabbitMQPublisher connects and declares the exchange.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, ch, err := dialExchange(url, ExchangeName)
	if err != nil {
		return nil, err
	}
	logger.Info("RabbitMQ publisher connected", "exchange", ExchangeName)
	return &RabbitMQPublisher{conn: conn, channel: ch, logger: logger}, nil
}

// Publish implements Publisher.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	p.logger.Debug("message published", "routing_key", routingKey, "size", len(payload))
	return nil
}

// Ping reports an error once the broker connection is gone.
func (p *RabbitMQPublisher) Ping(context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("RabbitMQ connection closed")
	}
	return nil
}

// Close implements Publisher.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return closeAMQP(p.conn, p.channel, p.logger)
}

// RabbitMQConsumerConfig configures a RabbitMQConsumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Logger    *slog.Logger
}

// RabbitMQConsumer feeds a durable queue bound to the exchange into a
// ConsumerRegistry. Failed deliveries are requeued.
type RabbitMQConsumer struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	registry *ConsumerRegistry
	logger   *slog.Logger
	running  bool
	done     chan struct{}
}

// NewRabbitMQConsumer connects, declares the exchange and the queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultQueueName
	}

	conn, ch, err := dialExchange(cfg.URL, ExchangeName)
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = closeAMQP(conn, ch, cfg.Logger)
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	cfg.Logger.Info("RabbitMQ consumer connected", "queue", cfg.QueueName, "exchange", ExchangeName)
	return &RabbitMQConsumer{
		conn:     conn,
		channel:  ch,
		queue:    cfg.QueueName,
		registry: registry,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// RegisterConsumer registers consumer and binds the queue to its patterns.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pattern := range consumer.EventTypes() {
		if err := c.channel.QueueBind(c.queue, pattern, ExchangeName, false, nil); err != nil {
			c.logger.Error("failed to bind queue", "pattern", pattern, "error", err)
		}
	}
}

// Start consumes until ctx is done or Close is called.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	c.logger.Info("started consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handleDelivery(ctx, msg)
		}
	}
}

func (c *RabbitMQConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	event, err := DecodeEnvelope(msg.RoutingKey, msg.Body)
	if err != nil {
		c.logger.Error("discarding undecodable message", "routing_key", msg.RoutingKey, "error", err)
		_ = msg.Ack(false)
		return
	}

	if err := c.registry.Dispatch(ctx, event); err != nil {
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to nack message", "error", nackErr)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}

// Close stops Start and closes the connection.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		close(c.done)
		c.running = false
	}
	return closeAMQP(c.conn, c.channel, c.logger)
}
