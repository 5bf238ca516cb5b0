package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nkravets/eshop/internal/infrastructure/redis"
	"github.com/nkravets/eshop/internal/repository"
	"github.com/segmentio/kafka-go"
)

// productCountKey mirrors the cache key used by the catalog service.
const productCountKey = "products:count"

// Consumer applies catalog events: stock adjustments coming back from the
// warehouse and cache invalidation for create/delete events.
type Consumer struct {
	reader      *kafka.Reader
	products    repository.ProductRepository
	redisClient redis.RedisClient
}

func NewConsumer(brokers []string, topic, groupID string, products repository.ProductRepository, redisClient redis.RedisClient) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		products:    products,
		redisClient: redisClient,
	}
}

func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to read Kafka message", "topic", c.reader.Config().Topic, "error", err)
			continue
		}

		slog.Info("Kafka message received", "topic", msg.Topic, "key", string(msg.Key))

		var event struct {
			EventType string `json:"event_type"`
			ProductID int64  `json:"product_id"`
			Delta     int32  `json:"delta"`
		}
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Error("failed to unmarshal catalog event", "error", err)
			continue
		}

		switch event.EventType {
		case "product_stock_adjusted":
			if event.ProductID == 0 {
				slog.Error("invalid stock event: missing product_id")
				continue
			}
			newStock, err := c.products.AdjustStock(ctx, event.ProductID, event.Delta)
			if err != nil {
				slog.Error("failed to adjust stock", "product_id", event.ProductID, "delta", event.Delta, "error", err)
				continue
			}
			slog.Info("stock adjusted", "product_id", event.ProductID, "count_in_stock", newStock)

		case "product_created", "product_deleted":
			if err := c.redisClient.Del(ctx, productCountKey); err != nil {
				slog.Error("failed to invalidate product count cache", "error", err)
			}

		default:
			slog.Error("unknown catalog event type", "type", event.EventType)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
