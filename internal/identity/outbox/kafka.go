package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"idlink/internal/identity/models"
	id "idlink/pkg/domain"
)

const eventTypeHeader = "event_type"

// KafkaPublisher produces outbox entries to one topic. Records are keyed by
// person id so every event for one person lands on the same partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string, opts ...kgo.Opt) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is required")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	resp, err := kadm.NewClient(p.client).CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, t := range resp {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

// Publish produces entries synchronously and returns the ids the brokers
// acknowledged. A non-nil error means at least one record failed.
func (p *KafkaPublisher) Publish(ctx context.Context, entries []models.OutboxEntry) ([]id.EventID, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	byRecord := make(map[*kgo.Record]id.EventID, len(entries))
	records := make([]*kgo.Record, 0, len(entries))
	for _, e := range entries {
		rec := &kgo.Record{
			Topic:   p.topic,
			Value:   e.Payload,
			Headers: []kgo.RecordHeader{{Key: eventTypeHeader, Value: []byte(e.Type)}},
		}
		if e.PersonID != nil {
			rec.Key = []byte(e.PersonID.String())
		}
		byRecord[rec] = e.ID
		records = append(records, rec)
	}

	results := p.client.ProduceSync(ctx, records...)
	done := make([]id.EventID, 0, len(results))
	for _, res := range results {
		if res.Err == nil {
			done = append(done, byRecord[res.Record])
		}
	}
	if err := results.FirstErr(); err != nil {
		return done, fmt.Errorf("produce outbox entries: %w", err)
	}
	return done, nil
}

// Ping checks that at least one broker is reachable.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
