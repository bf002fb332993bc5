package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNilProducerSkipsPublish(t *testing.T) {
	var p *Producer
	p.Publish(context.Background(), Event{Name: ProductCreated})
	assert.NoError(t, p.Close())
}

func TestNewProducerWithoutBrokerIsNil(t *testing.T) {
	assert.Nil(t, NewProducer(config.KafkaConfig{Topic: "x"}, zap.NewNop()))
}

func TestEventEncoding(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := Event{Name: OrderPlaced, ID: "42", At: at, Data: map[string]any{"total": "200"}}.encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "order.placed", decoded["event"])
	assert.Equal(t, "42", decoded["id"])
}

func TestRecorderNames(t *testing.T) {
	r := &Recorder{}
	r.Publish(context.Background(), Event{Name: FarmerRegistered})
	r.Publish(context.Background(), Event{Name: FarmerVerificationChanged})
	assert.Equal(t, []string{FarmerRegistered, FarmerVerificationChanged}, r.Names())
}
