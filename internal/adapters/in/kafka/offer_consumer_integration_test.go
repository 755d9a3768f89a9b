package kafka

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const offerTopic = "driver.offers"

func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}
	}
	require.NoError(t, controllerConn.CreateTopics(configs...))

	time.Sleep(time.Second)
}

func TestOfferConsumerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	createTopics(t, brokers, offerTopic)

	// Given
	driverID := kernel.NewUUID()
	subjectID := kernel.NewUUID()
	writer := &kafkago.Writer{Addr: kafkago.TCP(brokers...), Topic: offerTopic}
	defer writer.Close()
	require.NoError(t, writer.WriteMessages(ctx,
		kafkago.Message{Value: []byte("garbage")},
		kafkago.Message{Key: []byte(driverID.String()), Value: encode(t, OfferMessage{
			DriverID:  driverID,
			SubjectID: subjectID,
			Kind:      offer.KindBatch,
		})},
	))

	queue := &queueStub{}
	consumer := NewOfferConsumer(brokers, "dispatch-test", offerTopic, queue, discardLogger())
	defer consumer.Close()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- consumer.Start(runCtx) }()

	// When
	require.Eventually(t, func() bool { return len(queue.presentations()) == 1 }, 30*time.Second, 100*time.Millisecond)
	cancel()

	// Then
	assert.NoError(t, <-done)
	got := queue.presentations()[0]
	assert.Equal(t, driverID, got.DriverID)
	assert.Equal(t, subjectID, got.SubjectID)
	assert.Equal(t, offer.KindBatch, got.Kind)
}
