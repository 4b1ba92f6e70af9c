package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// Publisher emits domain events. Failures are reported to the caller, which
// treats them as non fatal.
type Publisher interface {
	PublishRoomReserved(ctx context.Context, ev queue.RoomReservedEvent) error
}

// NopPublisher drops every event. It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) PublishRoomReserved(context.Context, queue.RoomReservedEvent) error { return nil }

// AMQPPublisher publishes to the room.reserved queue on a RabbitMQ broker.
// Each publish dials its own connection; bookings are infrequent enough
// that a pooled channel is not worth the reconnect handling.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishRoomReserved sends ev as a persistent JSON message.
func (p *AMQPPublisher) PublishRoomReserved(ctx context.Context, ev queue.RoomReservedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue.RoomReservedQueue, true, false, false, false, nil); err != nil {
		log.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.RoomReservedQueue, false, false, pub); err != nil {
		log.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
