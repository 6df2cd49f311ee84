package rabbit

import "github.com/streadway/amqp"

// Declare declares a durable queue
func Declare(ch *amqp.Channel, qName string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		qName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

// NewChannel opens a consume channel for a queue with prefetch 1,
// so a worker executes one job at a time through to completion
func NewChannel(provider *ChannelProvider, qName string) (<-chan amqp.Delivery, error) {
	ch, err := provider.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, err
	}
	return ch.Consume(
		qName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}
