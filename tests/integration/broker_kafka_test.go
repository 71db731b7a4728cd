package integration

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"

	"tally/internal/broker"
	"tally/internal/config"
	"tally/pkg/models"
)

func startKafka(t *testing.T) []string {
	t.Helper()

	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkamodule.WithClusterID("test-cluster"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	return brokers
}

func createTopic(t *testing.T, brokers []string, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	require.NoError(t, err)
}

func TestKafkaBroker_PublishConsume(t *testing.T) {
	brokers := startKafka(t)
	createTopic(t, brokers, "it_messages")

	log := createTestLogger()

	producer := broker.NewKafkaProducer(config.KafkaConfig{Brokers: brokers}, log)
	defer producer.Close()

	msg := createTestMessage("msg-1", "chat-a", "AccountA bets 50 on TeamX")

	err := producer.Publish(context.Background(), "it_messages", msg)
	require.NoError(t, err)

	received := make(chan models.ChatMessage, 1)

	consumeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := broker.NewKafkaConsumer(config.KafkaConfig{
		Brokers: brokers,
		GroupID: "it-consumer",
	}, log)
	consumer.SetServiceName("integration-test")

	go consumer.Consume(consumeCtx, "it_messages", func(_ context.Context, m models.ChatMessage) error {
		received <- m
		return nil
	})

	select {
	case got := <-received:
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, msg.Source, got.Source)
		assert.Equal(t, msg.Text, got.Text)
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for the consumer to deliver the message")
	}

	cancel()
	consumer.Close()
}

func TestKafkaBroker_FailedMessagesGoToDLQ(t *testing.T) {
	brokers := startKafka(t)
	createTopic(t, brokers, "it_poison")
	createTopic(t, brokers, "it_dlq")

	log := createTestLogger()

	producer := broker.NewKafkaProducer(config.KafkaConfig{Brokers: brokers}, log)
	defer producer.Close()

	msg := createTestMessage("poison-1", "chat-a", "unparseable payload")

	err := producer.Publish(context.Background(), "it_poison", msg)
	require.NoError(t, err)

	consumeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One attempt, no backoff: the handler never succeeds and the message
	// must land on the DLQ instead of blocking the partition
	consumer := broker.NewKafkaConsumer(config.KafkaConfig{
		Brokers:  brokers,
		GroupID:  "it-dlq-consumer",
		DLQTopic: "it_dlq",
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 100 * time.Millisecond,
		},
	}, log)
	consumer.SetServiceName("integration-test")

	handled := make(chan struct{}, 1)
	go consumer.Consume(consumeCtx, "it_poison", func(_ context.Context, _ models.ChatMessage) error {
		select {
		case handled <- struct{}{}:
		default:
		}
		return assert.AnError
	})

	select {
	case <-handled:
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for the consumer to attempt the message")
	}

	dlqReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "it-dlq-reader",
		Topic:    "it_dlq",
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  2 * time.Second,
	})
	defer dlqReader.Close()

	readCtx, readCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer readCancel()

	m, err := dlqReader.ReadMessage(readCtx)
	require.NoError(t, err, "Failed message should be republished on the DLQ topic")

	var dead models.ChatMessage
	require.NoError(t, json.Unmarshal(m.Value, &dead))
	assert.Equal(t, "poison-1", dead.ID)
	assert.Equal(t, "it_poison", dead.Metadata.Attributes["dlq_source_topic"])
	assert.Contains(t, dead.Metadata.Attributes["dlq_reason"], "assert.AnError")

	cancel()
	consumer.Close()
}
