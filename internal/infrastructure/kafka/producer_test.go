package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
)

func TestAuditProducer_Publish(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true

	mock := mocks.NewAsyncProducer(t, cfg)
	mock.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "group:42", string(key))

		raw, err := msg.Value.Encode()
		require.NoError(t, err)

		var event audit.Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, audit.EventLinkRemoved, event.Type)
		assert.Equal(t, "user:7", event.SenderID)
		return nil
	})

	p := newAuditProducer(mock, "bot.audit", zerolog.Nop(), nil)
	p.Publish(context.Background(), audit.NewEvent(audit.EventLinkRemoved, "group:42", "user:7"))

	require.NoError(t, p.Close())
}

func TestAuditProducer_PublishAfterClose(t *testing.T) {
	mock := mocks.NewAsyncProducer(t, mocks.NewTestConfig())

	p := newAuditProducer(mock, "bot.audit", zerolog.Nop(), nil)
	require.NoError(t, p.Close())

	// no expectation registered: a send here would fail the mock
	p.Publish(context.Background(), audit.NewEvent(audit.EventBannedWord, "group:1", "user:1"))
}

// stalledProducer accepts nothing on Input, like sarama during a broker outage
// once its buffer is full
type stalledProducer struct {
	sarama.AsyncProducer
	input     chan *sarama.ProducerMessage
	successes chan *sarama.ProducerMessage
	errors    chan *sarama.ProducerError
	closeOnce sync.Once
}

func newStalledProducer() *stalledProducer {
	return &stalledProducer{
		input:     make(chan *sarama.ProducerMessage),
		successes: make(chan *sarama.ProducerMessage),
		errors:    make(chan *sarama.ProducerError),
	}
}

func (s *stalledProducer) Input() chan<- *sarama.ProducerMessage     { return s.input }
func (s *stalledProducer) Successes() <-chan *sarama.ProducerMessage { return s.successes }
func (s *stalledProducer) Errors() <-chan *sarama.ProducerError      { return s.errors }

func (s *stalledProducer) AsyncClose() {
	s.closeOnce.Do(func() {
		close(s.successes)
		close(s.errors)
	})
}

func TestAuditProducer_PublishDropsWhenQueueStalls(t *testing.T) {
	m := metrics.GetDefaultMetrics()
	overflow := m.AuditProduceErrors.WithLabelValues("overflow")
	before := testutil.ToFloat64(overflow)

	p := newAuditProducer(newStalledProducer(), "bot.audit", zerolog.Nop(), m)
	p.enqueueTimeout = 20 * time.Millisecond

	published := make(chan struct{})
	go func() {
		defer close(published)
		p.Publish(context.WithoutCancel(context.Background()), audit.NewEvent(audit.EventConnection, "", ""))
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled producer")
	}
	assert.Equal(t, before+1, testutil.ToFloat64(overflow))

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close blocked after a stalled Publish")
	}
}

func TestAuditProducer_CloseWaitsOutInflightPublish(t *testing.T) {
	p := newAuditProducer(newStalledProducer(), "bot.audit", zerolog.Nop(), nil)
	p.enqueueTimeout = 50 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Publish(context.Background(), audit.NewEvent(audit.EventBannedWord, "group:1", "user:1"))
		}()
	}

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close deadlocked with publishers in flight")
	}
	wg.Wait()
}
