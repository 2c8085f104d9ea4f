package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/messaging/kafka"
)

const (
	testSourceTopic = "fulfillment.dlq"
	testTargetTopic = "fulfillment.order.events"
)

func deadLetterValue(t *testing.T, outboxID, orderID string) []byte {
	t.Helper()

	original := json.RawMessage(fmt.Sprintf(`{"order_id":%q}`, orderID))
	letter, err := json.Marshal(domain.DeadLetter{
		OutboxID:       outboxID,
		AggregateType:  domain.AggregateTypeOrder,
		AggregateID:    orderID,
		EventType:      domain.EventTypeOrderCreated,
		Payload:        original,
		PublishError:   "kafka: client has run out of available brokers",
		DLQPublishedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	value, err := json.Marshal(kafka.NewOutboxEnvelope(domain.OutboxMessage{
		ID:            outboxID,
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   orderID,
		EventType:     "outbox.dead_letter",
		Payload:       letter,
		CreatedAt:     time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}, time.Now().UTC()))
	require.NoError(t, err)
	return value
}

func testConfig() config {
	return config{
		sourceTopic: testSourceTopic,
		targetTopic: testTargetTopic,
		limit:       10,
		idleTimeout: 20 * time.Millisecond,
	}
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, parseBrokers(" broker-1:9092, ,broker-2:9092 "))
	assert.Empty(t, parseBrokers(" , "))
}

func TestReadConfig_FromFlags(t *testing.T) {
	fs := flag.NewFlagSet("dlq-reprocess", flag.ContinueOnError)
	cfg, err := readConfig(fs, []string{
		"-brokers=broker-1:9092,broker-2:9092",
		"-limit=10",
		"-execute=true",
		"-from-newest=true",
		"-idle-timeout=3s",
	}, nil)
	require.NoError(t, err)

	assert.Len(t, cfg.brokers, 2)
	assert.Equal(t, kafka.TopicDeadLetterQueue, cfg.sourceTopic)
	assert.Equal(t, kafka.TopicOrderEvents, cfg.targetTopic)
	assert.Equal(t, 10, cfg.limit)
	assert.True(t, cfg.execute)
	assert.True(t, cfg.fromNewest)
	assert.Equal(t, 3*time.Second, cfg.idleTimeout)
}

func TestReadConfig_BrokersFromEnv(t *testing.T) {
	getenv := func(key string) string {
		if key == "KAFKA_BROKERS" {
			return "env-broker:9092"
		}
		return ""
	}

	cfg, err := readConfig(flag.NewFlagSet("dlq-reprocess", flag.ContinueOnError), nil, getenv)
	require.NoError(t, err)
	assert.Equal(t, []string{"env-broker:9092"}, cfg.brokers)
	assert.Equal(t, defaultReplayLimit, cfg.limit)
	assert.False(t, cfg.execute)
}

func TestReadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "brokers", args: []string{"-brokers="}, want: "kafka brokers are required"},
		{name: "source topic", args: []string{"-brokers=b:9092", "-source-topic="}, want: "source-topic is required"},
		{name: "target topic", args: []string{"-brokers=b:9092", "-target-topic="}, want: "target-topic is required"},
		{name: "same topics", args: []string{"-brokers=b:9092", "-target-topic=" + kafka.TopicDeadLetterQueue}, want: "must differ"},
		{name: "limit", args: []string{"-brokers=b:9092", "-limit=0"}, want: "limit must be > 0"},
		{name: "idle timeout", args: []string{"-brokers=b:9092", "-idle-timeout=0s"}, want: "idle-timeout must be > 0"},
		{name: "unknown flag", args: []string{"-nope"}, want: "flag provided but not defined"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := flag.NewFlagSet("dlq-reprocess", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			_, err := readConfig(fs, tc.args, func(string) string { return "" })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReplayMessage(t *testing.T) {
	cfg := testConfig()
	cfg.execute = true

	publisher := &stubReplayPublisher{}
	replayed, err := replayMessage(context.Background(), publisher, cfg, &sarama.ConsumerMessage{Value: deadLetterValue(t, "outbox-1", "order-1")})
	require.NoError(t, err)
	assert.True(t, replayed)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "outbox-1", publisher.published[0].ID)
	assert.Equal(t, domain.EventTypeOrderCreated, publisher.published[0].EventType)
	assert.JSONEq(t, `{"order_id":"order-1"}`, string(publisher.published[0].Payload))

	replayed, err = replayMessage(context.Background(), publisher, cfg, &sarama.ConsumerMessage{Value: []byte(`{"foo":"bar"}`)})
	require.NoError(t, err)
	assert.False(t, replayed, "foreign messages are skipped")

	replayed, err = replayMessage(context.Background(), publisher, cfg, &sarama.ConsumerMessage{Value: []byte(`{"id":"x","payload":"not-an-object"}`)})
	require.NoError(t, err)
	assert.False(t, replayed, "malformed dead letters are skipped")

	_, err = replayMessage(context.Background(), nil, cfg, &sarama.ConsumerMessage{Value: deadLetterValue(t, "outbox-2", "order-2")})
	assert.Error(t, err)

	publisher.err = errors.New("send failed")
	_, err = replayMessage(context.Background(), publisher, cfg, &sarama.ConsumerMessage{Value: deadLetterValue(t, "outbox-3", "order-3")})
	assert.ErrorContains(t, err, "outbox-3")
}

func TestOutboxReplayPublisher_WritesEnvelopeToTarget(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != testTargetTopic {
			return fmt.Errorf("unexpected topic %s", msg.Topic)
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		envelope, event, err := kafka.ParseOrderCreated(value)
		if err != nil {
			return err
		}
		if envelope.ID != "outbox-1" || event.OrderID != "order-1" {
			return fmt.Errorf("unexpected replay: %+v %+v", envelope, event)
		}
		return nil
	})

	producer := kafka.NewProducerFromSync(mockProducer, nil)
	publisher := outboxReplayPublisher{
		OutboxTopicPublisher: kafka.NewOutboxPublisher(producer, testTargetTopic),
		producer:             producer,
	}

	original, err := kafka.ParseDeadLetter(deadLetterValue(t, "outbox-1", "order-1"))
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), original))
	require.NoError(t, publisher.Close())
}

func TestProcessPartition_DryRun(t *testing.T) {
	client := &stubOffsetClient{offsets: map[int32]offsetRange{0: {oldest: 0, newest: 2}}}
	consumer := &stubPartitionConsumerSource{
		consumers: map[int32]partitionConsumer{
			0: closedPartitionConsumer([]*sarama.ConsumerMessage{
				{Partition: 0, Offset: 0, Value: deadLetterValue(t, "outbox-1", "order-1")},
				{Partition: 0, Offset: 1, Value: []byte(`{"foo":"bar"}`)},
			}),
		},
	}

	stats, err := processPartition(context.Background(), consumer, client, nil, testConfig(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, replayStats{processed: 2, replayed: 1, skipped: 1}, stats)
	require.Len(t, consumer.calls, 1)
	assert.Equal(t, int64(0), consumer.calls[0].offset)
}

func TestProcessPartition_Execute(t *testing.T) {
	client := &stubOffsetClient{offsets: map[int32]offsetRange{0: {oldest: 0, newest: 2}}}
	consumer := &stubPartitionConsumerSource{
		consumers: map[int32]partitionConsumer{
			0: closedPartitionConsumer([]*sarama.ConsumerMessage{
				{Partition: 0, Offset: 0, Value: deadLetterValue(t, "outbox-1", "order-1")},
				{Partition: 0, Offset: 1, Value: deadLetterValue(t, "outbox-2", "order-2")},
			}),
		},
	}
	publisher := &stubReplayPublisher{}

	cfg := testConfig()
	cfg.execute = true

	stats, err := processPartition(context.Background(), consumer, client, publisher, cfg, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.replayed)
	require.Len(t, publisher.published, 2)
	assert.Equal(t, "order-2", publisher.published[1].AggregateID)
}

func TestProcessPartition_FromNewestStartsWithinLimit(t *testing.T) {
	client := &stubOffsetClient{offsets: map[int32]offsetRange{0: {oldest: 3, newest: 10}}}
	consumer := &stubPartitionConsumerSource{
		consumers: map[int32]partitionConsumer{0: closedPartitionConsumer(nil)},
	}

	cfg := testConfig()
	cfg.fromNewest = true

	_, err := processPartition(context.Background(), consumer, client, nil, cfg, 0, 2)
	require.NoError(t, err)
	require.Len(t, consumer.calls, 1)
	assert.Equal(t, int64(8), consumer.calls[0].offset)

	_, err = processPartition(context.Background(), consumer, client, nil, cfg, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), consumer.calls[1].offset)
}

func TestProcessPartition_EmptyPartition(t *testing.T) {
	client := &stubOffsetClient{offsets: map[int32]offsetRange{0: {oldest: 5, newest: 5}}}
	consumer := &stubPartitionConsumerSource{}

	stats, err := processPartition(context.Background(), consumer, client, nil, testConfig(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, stats.processed)
	assert.Empty(t, consumer.calls)
}

func TestProcessPartition_ErrorBranches(t *testing.T) {
	cfg := testConfig()
	cfg.execute = true

	clientOffsetErr := &stubOffsetClient{offsetErr: map[int32]error{0: errors.New("offset")}}
	_, err := processPartition(context.Background(), &stubPartitionConsumerSource{}, clientOffsetErr, &stubReplayPublisher{}, cfg, 0, 1)
	assert.Error(t, err, "offset error")

	client := &stubOffsetClient{offsets: map[int32]offsetRange{0: {oldest: 0, newest: 2}}}
	consumerErr := &stubPartitionConsumerSource{consumeErr: errors.New("consume")}
	_, err = processPartition(context.Background(), consumerErr, client, &stubReplayPublisher{}, cfg, 0, 1)
	assert.Error(t, err, "consume error")

	pcWithErr := &stubPartitionConsumer{
		messages: make(chan *sarama.ConsumerMessage),
		errors:   make(chan *sarama.ConsumerError, 1),
	}
	pcWithErr.errors <- &sarama.ConsumerError{Err: errors.New("consumer boom")}
	close(pcWithErr.errors)
	consumer := &stubPartitionConsumerSource{consumers: map[int32]partitionConsumer{0: pcWithErr}}
	_, err = processPartition(context.Background(), consumer, client, &stubReplayPublisher{}, cfg, 0, 1)
	assert.ErrorContains(t, err, "consumer boom")
	close(pcWithErr.messages)

	pcBadPayload := closedPartitionConsumer([]*sarama.ConsumerMessage{{
		Partition: 0,
		Offset:    0,
		Value:     []byte(`{"id":"x","payload":"not-an-object"}`),
	}})
	consumer = &stubPartitionConsumerSource{consumers: map[int32]partitionConsumer{0: pcBadPayload}}
	stats, err := processPartition(context.Background(), consumer, client, &stubReplayPublisher{}, cfg, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.skipped)

	pcOK := closedPartitionConsumer([]*sarama.ConsumerMessage{{Partition: 0, Offset: 0, Value: deadLetterValue(t, "outbox-1", "order-1")}})
	consumer = &stubPartitionConsumerSource{consumers: map[int32]partitionConsumer{0: pcOK}}
	_, err = processPartition(context.Background(), consumer, client, &stubReplayPublisher{err: errors.New("send fail")}, cfg, 0, 1)
	assert.ErrorContains(t, err, "send fail")
}

func TestProcessPartition_IdleTimeoutAndContext(t *testing.T) {
	client := &stubOffsetClient{offsets: map[int32]offsetRange{0: {oldest: 0, newest: 2}}}

	idlePC := &stubPartitionConsumer{
		messages: make(chan *sarama.ConsumerMessage),
		errors:   make(chan *sarama.ConsumerError),
	}
	consumer := &stubPartitionConsumerSource{consumers: map[int32]partitionConsumer{0: idlePC}}
	cfg := testConfig()
	cfg.idleTimeout = 10 * time.Millisecond

	stats, err := processPartition(context.Background(), consumer, client, nil, cfg, 0, 1)
	require.NoError(t, err)
	assert.Zero(t, stats.processed)
	assert.True(t, idlePC.closed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	canceledPC := &stubPartitionConsumer{
		messages: make(chan *sarama.ConsumerMessage),
		errors:   make(chan *sarama.ConsumerError),
	}
	canceledConsumer := &stubPartitionConsumerSource{consumers: map[int32]partitionConsumer{0: canceledPC}}
	_, err = processPartition(ctx, canceledConsumer, client, nil, cfg, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReplay(t *testing.T) {
	cfg := testConfig()
	cfg.limit = 1

	_, err := runReplay(context.Background(), cfg, nil, nil, nil)
	assert.Error(t, err, "missing deps")

	client := &stubOffsetClient{
		partitions: []int32{2, 0},
		offsets: map[int32]offsetRange{
			0: {oldest: 0, newest: 2},
			2: {oldest: 0, newest: 2},
		},
	}
	consumer := &stubPartitionConsumerSource{
		consumers: map[int32]partitionConsumer{
			0: closedPartitionConsumer([]*sarama.ConsumerMessage{{Partition: 0, Offset: 0, Value: deadLetterValue(t, "outbox-1", "order-1")}}),
			2: closedPartitionConsumer([]*sarama.ConsumerMessage{{Partition: 2, Offset: 0, Value: deadLetterValue(t, "outbox-2", "order-2")}}),
		},
	}

	stats, err := runReplay(context.Background(), cfg, client, consumer, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.replayed)
	require.Len(t, consumer.calls, 1, "limit=1 stops after the first partition")
	assert.Equal(t, int32(0), consumer.calls[0].partition)

	executeCfg := cfg
	executeCfg.execute = true
	_, err = runReplay(context.Background(), executeCfg, client, consumer, nil)
	assert.ErrorContains(t, err, "publisher is required")

	_, err = runReplay(context.Background(), cfg, &stubOffsetClient{partitionsErr: errors.New("metadata")}, consumer, nil)
	assert.ErrorContains(t, err, "metadata")

	stats, err = runReplay(context.Background(), cfg, &stubOffsetClient{}, consumer, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.processed)
}

func TestRun_UsesDependencies(t *testing.T) {
	oldDeps := newReplayDependencies
	t.Cleanup(func() { newReplayDependencies = oldDeps })

	cfg := testConfig()
	cfg.limit = 1
	cfg.execute = true

	newReplayDependencies = func(config) (offsetClient, partitionConsumerSource, replayPublisher, error) {
		return nil, nil, nil, errors.New("deps failed")
	}
	assert.ErrorContains(t, run(context.Background(), cfg), "deps failed")

	client := &stubOffsetClient{
		partitions: []int32{0},
		offsets:    map[int32]offsetRange{0: {oldest: 0, newest: 1}},
	}
	consumer := &stubPartitionConsumerSource{
		consumers: map[int32]partitionConsumer{
			0: closedPartitionConsumer([]*sarama.ConsumerMessage{{Partition: 0, Offset: 0, Value: deadLetterValue(t, "outbox-1", "order-1")}}),
		},
	}
	publisher := &stubReplayPublisher{}

	newReplayDependencies = func(config) (offsetClient, partitionConsumerSource, replayPublisher, error) {
		return client, consumer, publisher, nil
	}
	require.NoError(t, run(context.Background(), cfg))
	assert.Len(t, publisher.published, 1)
	assert.True(t, client.closed && consumer.closed && publisher.closed, "all deps must be closed")
}

func TestMain_SuccessWithStubbedDeps(t *testing.T) {
	oldDeps := newReplayDependencies
	oldArgs := os.Args
	oldCommandLine := flag.CommandLine
	t.Cleanup(func() {
		newReplayDependencies = oldDeps
		os.Args = oldArgs
		flag.CommandLine = oldCommandLine
	})

	client := &stubOffsetClient{
		partitions: []int32{0},
		offsets:    map[int32]offsetRange{0: {oldest: 0, newest: 2}},
	}
	consumer := &stubPartitionConsumerSource{
		consumers: map[int32]partitionConsumer{
			0: closedPartitionConsumer([]*sarama.ConsumerMessage{{Partition: 0, Offset: 0, Value: deadLetterValue(t, "outbox-1", "order-1")}}),
		},
	}
	newReplayDependencies = func(config) (offsetClient, partitionConsumerSource, replayPublisher, error) {
		return client, consumer, nil, nil
	}

	os.Args = []string{"dlq-reprocess", "-brokers=broker:9092", "-limit=1", "-idle-timeout=50ms"}
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	main()

	assert.True(t, client.closed)
}

func TestFailExits(t *testing.T) {
	if os.Getenv("DLQ_TEST_FAIL_EXIT") == "1" {
		fail("boom")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFailExits")
	cmd.Env = append(os.Environ(), "DLQ_TEST_FAIL_EXIT=1")
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.NotZero(t, exitErr.ExitCode())
	assert.Contains(t, stderr.String(), "boom")
}

type offsetRange struct {
	oldest int64
	newest int64
}

type stubOffsetClient struct {
	partitions    []int32
	partitionsErr error
	offsets       map[int32]offsetRange
	offsetErr     map[int32]error
	closed        bool
}

func (s *stubOffsetClient) GetOffset(_ string, partition int32, marker int64) (int64, error) {
	if err, ok := s.offsetErr[partition]; ok {
		return 0, err
	}

	r := s.offsets[partition]
	switch marker {
	case sarama.OffsetOldest:
		return r.oldest, nil
	case sarama.OffsetNewest:
		return r.newest, nil
	default:
		return 0, fmt.Errorf("unsupported marker %d", marker)
	}
}

func (s *stubOffsetClient) Partitions(string) ([]int32, error) {
	if s.partitionsErr != nil {
		return nil, s.partitionsErr
	}
	return append([]int32(nil), s.partitions...), nil
}

func (s *stubOffsetClient) Close() error {
	s.closed = true
	return nil
}

type consumeCall struct {
	partition int32
	offset    int64
}

type stubPartitionConsumerSource struct {
	consumers  map[int32]partitionConsumer
	consumeErr error
	calls      []consumeCall
	closed     bool
}

func (s *stubPartitionConsumerSource) ConsumePartition(_ string, partition int32, offset int64) (partitionConsumer, error) {
	s.calls = append(s.calls, consumeCall{partition: partition, offset: offset})
	if s.consumeErr != nil {
		return nil, s.consumeErr
	}
	pc, ok := s.consumers[partition]
	if !ok {
		return nil, fmt.Errorf("partition %d not configured", partition)
	}
	return pc, nil
}

func (s *stubPartitionConsumerSource) Close() error {
	s.closed = true
	return nil
}

type stubPartitionConsumer struct {
	messages chan *sarama.ConsumerMessage
	errors   chan *sarama.ConsumerError
	closed   bool
}

func (s *stubPartitionConsumer) Messages() <-chan *sarama.ConsumerMessage { return s.messages }
func (s *stubPartitionConsumer) Errors() <-chan *sarama.ConsumerError     { return s.errors }
func (s *stubPartitionConsumer) Close() error {
	s.closed = true
	return nil
}

func closedPartitionConsumer(messages []*sarama.ConsumerMessage) *stubPartitionConsumer {
	msgCh := make(chan *sarama.ConsumerMessage, len(messages))
	errCh := make(chan *sarama.ConsumerError)
	for _, msg := range messages {
		msgCh <- msg
	}
	close(msgCh)
	close(errCh)
	return &stubPartitionConsumer{messages: msgCh, errors: errCh}
}

type stubReplayPublisher struct {
	err       error
	published []domain.OutboxMessage
	closed    bool
}

func (s *stubReplayPublisher) Publish(_ context.Context, msg domain.OutboxMessage) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, msg)
	return nil
}

func (s *stubReplayPublisher) Close() error {
	s.closed = true
	return nil
}
