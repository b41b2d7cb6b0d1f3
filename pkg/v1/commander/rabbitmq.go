package commander

import "context"

//go:generate mockery --name RabbitMQPublisher --filename rabbitmqpublisher.go

// RabbitMQPublisher is RabbitMQ messages publisher.
type RabbitMQPublisher interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
}

// RabbitMQSender sends commands as RMQ messages to commands routing key.
type RabbitMQSender struct {
	publisher  RabbitMQPublisher
	routingKey string
}

// NewRabbitMQSender returns new RabbitMQSender publishing to routingKey, which should be bound to sync commands queue.
func NewRabbitMQSender(publisher RabbitMQPublisher, routingKey string) RabbitMQSender {
	return RabbitMQSender{
		publisher:  publisher,
		routingKey: routingKey,
	}
}

// Send publishes msg to commands routing key.
func (s RabbitMQSender) Send(ctx context.Context, msg []byte) error {
	return s.publisher.Publish(ctx, s.routingKey, msg)
}
