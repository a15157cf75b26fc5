package event

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/pkg/kafka"
	"github.com/utafrali/catalog-datagen/pkg/logger"
)

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]*kafka.Event
	topics  []string
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, events ...*kafka.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.batches = append(f.batches, events)
	return nil
}

func productTable(n int) *domain.Table {
	t := &domain.Table{}
	for i := 0; i < n; i++ {
		r := domain.NewRecord(2)
		r.Set("sku", "id-"+strconv.Itoa(i))
		r.Set("family", "shoes")
		t.Append(r)
	}
	return t
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "datagen.product.generated", Topic(domain.EntityProduct))
}

func TestRecordPublisher_PublishesInBatches(t *testing.T) {
	fp := &fakePublisher{}
	p := NewRecordPublisher(fp, DefaultBreakerConfig(), 2, nil)
	ctx := logger.WithRunID(context.Background(), "run-1")

	n, err := p.PublishTable(ctx, domain.EntityProduct, productTable(5))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.Len(t, fp.batches, 3)
	assert.Len(t, fp.batches[0], 2)
	assert.Len(t, fp.batches[2], 1)
	assert.Equal(t, []string{"datagen.product.generated", "datagen.product.generated", "datagen.product.generated"}, fp.topics)

	ev := fp.batches[0][1]
	assert.Equal(t, "id-1", ev.AggregateID)
	assert.Equal(t, domain.EntityProduct, ev.AggregateType)
	assert.Equal(t, "run-1", ev.CorrelationID)
	assert.Equal(t, Source, ev.Source)
	assert.Equal(t, "1", ev.Metadata[MetadataRow])
	assert.Equal(t, "4", fp.batches[2][0].Metadata[MetadataRow])

	var data map[string]string
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, map[string]string{"sku": "id-1", "family": "shoes"}, data)
}

func TestRecordPublisher_EmptyTable(t *testing.T) {
	fp := &fakePublisher{}
	p := NewRecordPublisher(fp, DefaultBreakerConfig(), 0, nil)

	n, err := p.PublishTable(context.Background(), domain.EntityProduct, &domain.Table{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = p.PublishTable(context.Background(), domain.EntityProduct, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, fp.batches)
}

func TestRecordPublisher_ErrorStopsPublishing(t *testing.T) {
	boom := errors.New("broker unavailable")
	fp := &fakePublisher{err: boom}
	p := NewRecordPublisher(fp, DefaultBreakerConfig(), 1, nil)

	n, err := p.PublishTable(context.Background(), domain.EntityVariantGroup, productTable(3))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "publish variant_group records")
}

func TestRecordPublisher_BreakerTrips(t *testing.T) {
	fp := &fakePublisher{err: errors.New("broker unavailable")}
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 2
	p := NewRecordPublisher(fp, cfg, 1, nil)

	for i := 0; i < 2; i++ {
		_, err := p.PublishTable(context.Background(), domain.EntityProduct, productTable(1))
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	fp.err = nil
	_, err := p.PublishTable(context.Background(), domain.EntityProduct, productTable(1))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Empty(t, fp.batches, "open breaker does not reach the broker")
}
