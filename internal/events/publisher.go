// Package events carries progress changes to interested consumers over
// watermill, in process or through Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gyani-service/internal/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/golang/glog"
)

// DefaultTopic receives every progress event.
const DefaultTopic = "gyani.progress"

// Publisher publishes progress events to a watermill topic.
type Publisher struct {
	publisher message.Publisher
	topic     string
}

// KafkaConfig configures the Kafka-backed publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaPublisher publishes events to Kafka.
func NewKafkaPublisher(cfg KafkaConfig) (*Publisher, error) {
	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, newGlogAdapter())
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	return newPublisher(pub, cfg.Topic), nil
}

// NewInProcess returns a publisher and the go-channel pub/sub it writes to,
// so consumers in the same process can subscribe.
func NewInProcess(topic string) (*Publisher, *gochannel.GoChannel) {
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, newGlogAdapter())
	return newPublisher(bus, topic), bus
}

func newPublisher(pub message.Publisher, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{publisher: pub, topic: topic}
}

// Topic the publisher writes to.
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish marshals event to JSON and sends it with routing metadata.
func (p *Publisher) Publish(ctx context.Context, event domain.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}
	id := event.ID
	if id == "" {
		id = watermill.NewUUID()
	}

	msg := message.NewMessage(id, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("profile_id", event.ProfileID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish progress event %s: %w", id, err)
	}
	glog.V(2).Infof("published %s for profile %s", event.Type, event.ProfileID)
	return nil
}

func (p *Publisher) Close() error {
	return p.publisher.Close()
}
