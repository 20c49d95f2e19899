package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "bridge.transactions" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "tx-1" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var ev Event
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		if ev.Type != EventRecorded || ev.Transaction.Status != bridge.StatusPending {
			return errors.New("unexpected payload")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "bridge.transactions", zap.NewNop())
	err := pub.Publish(context.Background(), Event{
		Type:        EventRecorded,
		Transaction: &bridge.Transaction{ID: "tx-1", Status: bridge.StatusPending},
		Timestamp:   time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_Failure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "bridge.transactions", zap.NewNop())
	err := pub.Publish(context.Background(), Event{
		Type:        EventUpdated,
		Transaction: &bridge.Transaction{ID: "tx-1"},
	})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_WithLedger(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()

	l := newTestLedger(t, NewKafkaPublisherWithProducer(producer, "bridge.transactions", zap.NewNop()))
	ctx := context.Background()

	tx, err := l.Record(ctx, newDeposit(sourceHash))
	require.NoError(t, err)
	_, err = l.MarkFailed(ctx, tx.ID, "reverted")
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}
