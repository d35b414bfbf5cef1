package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StreamRecord is the value of every message on the order event topic.
type StreamRecord struct {
	Channel    string          `json:"channel"`
	Event      string          `json:"event"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// KafkaPublisher appends events to a Kafka topic. Messages are keyed by channel so
// events of one channel keep their order within a partition.
type KafkaPublisher struct {
	writer MessageWriter
	events map[string]struct{}
	now    func() time.Time
}

// NewKafkaWriter creates a writer for topic on the comma separated brokers.
func NewKafkaWriter(brokersCSV, topic string) *kafka.Writer {
	brokers := make([]string, 0)
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher creates a publisher that forwards only the named events.
// With no names every event is forwarded.
func NewKafkaPublisher(writer MessageWriter, events ...string) *KafkaPublisher {
	filter := make(map[string]struct{}, len(events))
	for _, name := range events {
		filter[name] = struct{}{}
	}
	return &KafkaPublisher{writer: writer, events: filter, now: time.Now}
}

// Publish writes event to the topic unless it is filtered out.
func (p *KafkaPublisher) Publish(ctx context.Context, channel string, event ports.Event) error {
	if len(p.events) > 0 {
		if _, ok := p.events[event.Name]; !ok {
			return nil
		}
	}

	value, err := json.Marshal(StreamRecord{
		Channel:    channel,
		Event:      event.Name,
		Payload:    event.Payload,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode %s record: %w", event.Name, err)
	}

	msg := kafka.Message{
		Key:     []byte(channel),
		Value:   value,
		Headers: []kafka.Header{{Key: "event", Value: []byte(event.Name)}},
		Time:    p.now().UTC(),
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", event.Name, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
