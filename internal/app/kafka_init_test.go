package app

import (
	"errors"
	"slices"
	"testing"

	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/messaging/kafka"
)

func stubKafkaProducer(t *testing.T, fn func(brokers []string, clientID string) (*kafka.Producer, error)) {
	t.Helper()

	original := newKafkaProducer
	newKafkaProducer = fn
	t.Cleanup(func() { newKafkaProducer = original })
}

func TestInitKafkaProducer_NoBrokers(t *testing.T) {
	stubKafkaProducer(t, func([]string, string) (*kafka.Producer, error) {
		t.Fatal("producer must not be created without brokers")
		return nil, nil
	})

	cfg := Config{KafkaBrokers: " , "}
	producer, err := initKafkaProducer(cfg.KafkaBrokerList(), "fulfillment-service", log.WithField("test", "kafka"))
	if err != nil || producer != nil {
		t.Fatalf("expected nil producer and nil error, got %v %v", producer, err)
	}
}

func TestInitKafkaProducer_PassesBrokerList(t *testing.T) {
	var (
		gotBrokers  []string
		gotClientID string
	)
	syncProducer := mocks.NewSyncProducer(t, nil)
	stubKafkaProducer(t, func(brokers []string, clientID string) (*kafka.Producer, error) {
		gotBrokers, gotClientID = brokers, clientID
		return kafka.NewProducerFromSync(syncProducer, log.WithField("test", "kafka")), nil
	})

	cfg := Config{KafkaBrokers: "kafka-1:9092, kafka-2:9092", KafkaClientID: "fulfillment-service"}
	producer, err := initKafkaProducer(cfg.KafkaBrokerList(), cfg.KafkaClientID, log.WithField("test", "kafka"))
	if err != nil {
		t.Fatalf("initKafkaProducer failed: %v", err)
	}
	if producer == nil {
		t.Fatal("expected producer")
	}
	if !slices.Equal(gotBrokers, []string{"kafka-1:9092", "kafka-2:9092"}) || gotClientID != "fulfillment-service" {
		t.Fatalf("unexpected producer args: %v %q", gotBrokers, gotClientID)
	}

	closeKafkaProducer(producer, log.WithField("test", "kafka"))
}

func TestInitKafkaProducer_ConstructorError(t *testing.T) {
	boom := errors.New("kafka: client has run out of available brokers")
	stubKafkaProducer(t, func([]string, string) (*kafka.Producer, error) {
		return nil, boom
	})

	producer, err := initKafkaProducer([]string{"kafka-1:9092"}, "fulfillment-service", log.WithField("test", "kafka"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected constructor error, got %v", err)
	}
	if producer != nil {
		t.Fatal("expected nil producer on error")
	}
}

func TestCloseKafkaProducer_Nil(_ *testing.T) {
	closeKafkaProducer(nil, log.WithField("test", "kafka"))
}
