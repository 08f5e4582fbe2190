// Package outbox relays persisted audit entries to Kafka.
//
// The relay polls the audit outbox, produces each unpublished entry to the
// audit topic keyed by "<kind>:<entity id>", and stamps the rows as published
// in the same transaction that locked them. Delivery is at-least-once.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/tx"
)

const (
	DefaultTopic     = "rsu.audit"
	defaultBatchSize = 100
	defaultInterval  = 2 * time.Second
)

// Producer is the subset of *kgo.Client the relay needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Relay moves outbox rows to Kafka.
type Relay struct {
	outbox    audit.Outbox
	runner    tx.Runner
	producer  Producer
	topic     string
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
}

// Option configures the Relay.
type Option func(*Relay)

func WithTopic(topic string) Option {
	return func(r *Relay) { r.topic = topic }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

// NewRelay builds a relay. runner scopes each fetch-produce-mark cycle.
func NewRelay(outbox audit.Outbox, runner tx.Runner, producer Producer, opts ...Option) *Relay {
	r := &Relay{
		outbox:    outbox,
		runner:    runner,
		producer:  producer,
		topic:     DefaultTopic,
		batchSize: defaultBatchSize,
		interval:  defaultInterval,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type message struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	EntityID  string            `json:"entity_id"`
	Action    string            `json:"action"`
	ActorID   string            `json:"actor_id,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Timestamp string            `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

func toRecord(topic string, e audit.Entry) (*kgo.Record, error) {
	msg := message{
		ID:        e.ID.String(),
		Kind:      string(e.Target.Kind()),
		EntityID:  e.Target.EntityID(),
		Action:    string(e.Action),
		RequestID: e.RequestID,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Details:   e.Details,
	}
	if !e.ActorID.IsNil() {
		msg.ActorID = e.ActorID.String()
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal audit message: %w", err)
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(e.Target.Key()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(e.Action)},
		},
	}, nil
}

// PublishPending relays one batch and returns how many entries were delivered.
func (r *Relay) PublishPending(ctx context.Context) (int, error) {
	published := 0
	err := r.runner.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		records := make([]*kgo.Record, 0, len(entries))
		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			rec, err := toRecord(r.topic, e)
			if err != nil {
				return err
			}
			records = append(records, rec)
			ids = append(ids, e.ID)
		}

		if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
			return fmt.Errorf("produce audit batch: %w", err)
		}
		if err := r.outbox.MarkPublished(ctx, ids, time.Now()); err != nil {
			return err
		}
		published = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

// Run polls until ctx is cancelled. Failed batches are retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := r.PublishPending(ctx)
			if err != nil {
				r.logger.WarnContext(ctx, "audit relay batch failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.DebugContext(ctx, "audit entries relayed", "count", n, "topic", r.topic)
			}
		}
	}
}

// EnsureTopic creates the audit topic if it does not exist.
func EnsureTopic(ctx context.Context, admin *kadm.Client, topic string, partitions int32, replicationFactor int16) error {
	resp, err := admin.CreateTopics(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, t := range resp {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}
