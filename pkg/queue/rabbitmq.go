package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hookr/pkg/config"
	"hookr/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName = "notification_queue"
	NotificationExchange  = "notifications"
	NotificationRouting   = "notification"
	MaxPriority           = 10
)

var (
	tasksPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookr_queue_tasks_published_total",
		Help: "Notification tasks published to RabbitMQ",
	}, []string{"type", "result"})

	tasksConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookr_queue_tasks_consumed_total",
		Help: "Notification tasks consumed from RabbitMQ",
	}, []string{"type", "result"})
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

var _ Publisher = (*Client)(nil)

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func declareTopology(channel *amqp.Channel) error {
	if err := channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := channel.QueueDeclare(
		NotificationQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-max-priority": MaxPriority},
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(NotificationQueueName, NotificationRouting, NotificationExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends a persistent task; priority is clamped to 0..MaxPriority.
func (c *Client) Publish(ctx context.Context, task Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		NotificationExchange,
		NotificationRouting,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     clampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    task.CreatedAt,
		},
	)
	if err != nil {
		tasksPublished.WithLabelValues(string(task.Type), "error").Inc()
		c.logger.Error("[RABBITMQ] Failed to publish %s task: %v", task.Type, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	tasksPublished.WithLabelValues(string(task.Type), "ok").Inc()
	c.logger.Debug("[RABBITMQ] Published %s task to %s", task.Type, NotificationQueueName)
	return nil
}

// Consume runs handler for every task until ctx is cancelled. Handler errors requeue the message;
// undecodable bodies are dropped.
func (c *Client) Consume(ctx context.Context, handler func(ctx context.Context, task Task) error) error {
	if err := c.channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		NotificationQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", NotificationQueueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("[RABBITMQ] Delivery channel closed")
					return
				}
				c.handleDelivery(ctx, msg, handler)
			}
		}
	}()

	return nil
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(ctx context.Context, task Task) error) {
	var task Task
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		c.logger.Error("[RABBITMQ] Failed to unmarshal task: %v, body=%s", err, string(msg.Body))
		tasksConsumed.WithLabelValues("unknown", "dropped").Inc()
		msg.Nack(false, false)
		return
	}

	if err := handler(ctx, task); err != nil {
		c.logger.Error("[RABBITMQ] Handler failed for %s task: %v", task.Type, err)
		tasksConsumed.WithLabelValues(string(task.Type), "requeued").Inc()
		// Redelivered messages are dropped to avoid a hot loop on a poison task.
		msg.Nack(false, !msg.Redelivered)
		return
	}

	tasksConsumed.WithLabelValues(string(task.Type), "ok").Inc()
	msg.Ack(false)
}

func (c *Client) QueueLength() (int, error) {
	q, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return q.Messages, nil
}
