package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc is function which handles messages.
type HandlerFunc func(ctx context.Context, message []byte) error

// RabbitMQ consumes and publishes amqp messages on single topic exchange.
type RabbitMQ struct {
	channel   *amqp.Channel
	exchange  string
	isRunning chan struct{}
}

// NewRabbitMQ returns new RabbitMQ. It declares durable topic exchange if it does not exist.
func NewRabbitMQ(connection *amqp.Connection, exchange string) (*RabbitMQ, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("can't open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("can't declare exchange %s: %w", exchange, err)
	}

	mq := RabbitMQ{
		channel:   channel,
		exchange:  exchange,
		isRunning: make(chan struct{}),
	}
	close(mq.isRunning)

	return &mq, nil
}

// DeclareQueue declares durable queue and binds it to exchange with routing key.
func (mq *RabbitMQ) DeclareQueue(queue, routingKey string) error {
	if _, err := mq.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("can't declare queue %s: %w", queue, err)
	}

	if err := mq.channel.QueueBind(queue, routingKey, mq.exchange, false, nil); err != nil {
		return fmt.Errorf("can't bind queue %s to %s: %w", queue, routingKey, err)
	}

	return nil
}

// Publish publishes persistent JSON message to routing key.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey string, message []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         message,
	}

	if err := mq.channel.PublishWithContext(ctx, mq.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("can't publish message to %s: %w", routingKey, err)
	}

	return nil
}

// Consume consumes messages from queue one by one and passes deliveries to provided handler function.
// Messages are acked when handler succeeds and dropped without requeue when it fails.
// It returns channel with errors from handler function and consuming process.
// Function works asynchronously, it consumes messages in background as long as context is not closed.
func (mq *RabbitMQ) Consume(ctx context.Context, queue string, handler HandlerFunc) (<-chan error, error) {
	consumerID, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("can't create consumer ID: %w", err)
	}

	if err := mq.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("can't set prefetch count: %w", err)
	}

	deliveries, err := mq.channel.Consume(
		queue,
		consumerID.String(),
		false, // auto acknowledge
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("can't start consuming: %w", err)
	}

	consumingErrors := make(chan error)
	mq.isRunning = make(chan struct{})
	go func() {
		defer close(mq.isRunning)
		defer close(consumingErrors)
		mq.consumeMessages(ctx, consumerID.String(), deliveries, consumingErrors, handler)
	}()

	return consumingErrors, nil
}

func (mq *RabbitMQ) consumeMessages(
	ctx context.Context,
	consumerID string,
	deliveries <-chan amqp.Delivery,
	consumingErrors chan error,
	handler HandlerFunc,
) {
	for {
		select {
		case <-ctx.Done():
			if err := mq.channel.Cancel(consumerID, false); err != nil {
				_ = pushError(context.WithoutCancel(ctx), fmt.Errorf("can't cancel consumer: %w", err), consumingErrors)
			}
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			if err := mq.handle(ctx, &delivery, consumingErrors, handler); err != nil {
				return
			}
		}
	}
}

func (mq *RabbitMQ) handle(
	ctx context.Context,
	delivery *amqp.Delivery,
	consumingErrors chan error,
	handler HandlerFunc,
) error {
	if err := handler(ctx, delivery.Body); err != nil {
		_ = pushError(ctx, fmt.Errorf("message %s: %w", delivery.MessageId, err), consumingErrors)
		if err := delivery.Nack(false, false); err != nil {
			return pushError(ctx, fmt.Errorf("can't nack message: %w", err), consumingErrors)
		}
		return nil
	}

	if err := delivery.Ack(false); err != nil {
		return pushError(ctx, fmt.Errorf("can't ack message: %w", err), consumingErrors)
	}

	return nil
}

// Done returns channel which will be closed when consuming will be finished.
func (mq *RabbitMQ) Done() <-chan struct{} {
	return mq.isRunning
}

// Close closes channel.
func (mq *RabbitMQ) Close() error {
	if err := mq.channel.Close(); err != nil {
		return fmt.Errorf("can't close channel: %w", err)
	}
	return nil
}

func pushError(ctx context.Context, err error, errChan chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case errChan <- err:
	}
	return nil
}
