package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "rsu/pkg/domain"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/audit/store/memory"
	"rsu/pkg/platform/tx"
)

type fakeProducer struct {
	mu      sync.Mutex
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.mu.Lock()
	defer p.mu.Unlock()
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if p.err == nil {
			p.records = append(p.records, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func seed(t *testing.T, store *memory.InMemoryStore, n int) id.PersonID {
	t.Helper()
	personID := id.NewPersonID()
	for i := range n {
		require.NoError(t, store.Append(context.Background(), audit.Entry{
			Target:    audit.Person(personID),
			Action:    audit.ActionPersonUpdated,
			Timestamp: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		}))
	}
	return personID
}

func TestRelay_PublishPending(t *testing.T) {
	store := memory.NewInMemoryStore()
	personID := seed(t, store, 3)
	producer := &fakeProducer{}
	relay := NewRelay(store, tx.NopRunner{}, producer, WithBatchSize(2))

	n, err := relay.PublishPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.PublishPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = relay.PublishPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.Len(t, producer.records, 3)
	rec := producer.records[0]
	assert.Equal(t, DefaultTopic, rec.Topic)
	assert.Equal(t, "person:"+personID.String(), string(rec.Key))

	var msg message
	require.NoError(t, json.Unmarshal(rec.Value, &msg))
	assert.Equal(t, "person_updated", msg.Action)
	assert.Equal(t, personID.String(), msg.EntityID)
}

func TestRelay_ProduceFailureLeavesEntriesPending(t *testing.T) {
	store := memory.NewInMemoryStore()
	seed(t, store, 2)
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	relay := NewRelay(store, tx.NopRunner{}, producer, WithTopic("audit.test"))

	_, err := relay.PublishPending(context.Background())
	require.Error(t, err)

	pending, err := store.FetchUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	store := memory.NewInMemoryStore()
	seed(t, store, 1)
	producer := &fakeProducer{}
	relay := NewRelay(store, tx.NopRunner{}, producer, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		producer.mu.Lock()
		defer producer.mu.Unlock()
		return len(producer.records) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
