package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shopify/sarama"

	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// MessageHandler processes messages delivered by the consumer. A non-nil
// error leaves the message unmarked so it is redelivered.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// ConsumerConfig configures the Kafka consumer group
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// Consumer wraps a sarama consumer group reading a single topic
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler MessageHandler
	logger  logger.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewConsumer creates a consumer group for the given topic and handler
func NewConsumer(cfg *ConsumerConfig, handler MessageHandler, logger logger.Logger) (*Consumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		group:   group,
		topic:   cfg.Topic,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start begins consuming in the background, rejoining the group on errors
// until Stop is called.
func (c *Consumer) Start() error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		for {
			if err := c.group.Consume(c.ctx, []string{c.topic}, c); err != nil {
				c.logger.Error("Kafka consumer error", "error", err)
			}
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Info("Rejoining consumer group", "topic", c.topic)
		}
	}()

	c.logger.Info("Kafka consumer started", "topic", c.topic)
	return nil
}

// Stop shuts down the consumer and waits for the session to finish
func (c *Consumer) Stop() error {
	c.cancel()
	c.wg.Wait()
	return c.group.Close()
}

// Setup implements sarama.ConsumerGroupHandler
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error { return nil }

// Cleanup implements sarama.ConsumerGroupHandler
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim implements sarama.ConsumerGroupHandler
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			if err := c.handler.HandleMessage(session.Context(), msg); err != nil {
				c.logger.Error("Error handling message",
					"error", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
				continue
			}
			session.MarkMessage(msg, "")

		case <-session.Context().Done():
			return nil
		case <-c.ctx.Done():
			return nil
		}
	}
}
