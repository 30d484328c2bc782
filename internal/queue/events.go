// internal/queue/events.go
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/candraczapansky/salon-notify/internal/model"
)

// Publisher puts business events on the durable event queue. The booking
// application (or the HTTP events endpoint) is the producer; the worker is
// the consumer.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewPublisher(url, queueName string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, queue: queueName}, nil
}

// PublishTrigger enqueues one trigger event, assigning an id when the
// producer did not set one.
func (p *Publisher) PublishTrigger(event model.TriggerEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Body:         body,
	})
}

func (p *Publisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Consumer reads trigger events off the queue and hands them to a handler.
type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewConsumer(url, queueName string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &Consumer{conn: conn, ch: ch, queue: queueName}, nil
}

const maxDeliveryRetries = 3

// Consume blocks, decoding each delivery and invoking the handler. A failing
// handler is retried with backoff up to maxDeliveryRetries times before the
// delivery is dropped; malformed payloads are acked and dropped immediately.
func (c *Consumer) Consume(handler func(model.TriggerEvent) error) error {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for d := range deliveries {
		var event model.TriggerEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			d.Ack(false)
			continue
		}

		for attempt := 1; ; attempt++ {
			if err := handler(event); err == nil || attempt >= maxDeliveryRetries {
				break
			}
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
		}
		d.Ack(false)
	}
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
