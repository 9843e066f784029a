package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/InviteLink/internal/logger"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func delivery(t *testing.T, ack *ackRecorder, body []byte, redelivered bool) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body, Redelivered: redelivered}
}

func validBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(payloads.UserRegisteredPayload{Username: "alice", HasAvatar: true, RegisteredAt: time.Now()})
	require.NoError(t, err)
	return b
}

func TestHandleDelivery_Ack(t *testing.T) {
	ack := &ackRecorder{}
	var got payloads.UserRegisteredPayload

	handleDelivery(context.Background(), delivery(t, ack, validBody(t), false),
		func(_ context.Context, p payloads.UserRegisteredPayload) error {
			got = p
			return nil
		}, logger.Discard())

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.HasAvatar)
}

func TestHandleDelivery_BadJSONDropped(t *testing.T) {
	ack := &ackRecorder{}
	called := false

	handleDelivery(context.Background(), delivery(t, ack, []byte("{not json"), false),
		func(context.Context, payloads.UserRegisteredPayload) error {
			called = true
			return nil
		}, logger.Discard())

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_HandlerErrorRequeuesOnce(t *testing.T) {
	failing := func(context.Context, payloads.UserRegisteredPayload) error { return errors.New("s3 down") }

	first := &ackRecorder{}
	handleDelivery(context.Background(), delivery(t, first, validBody(t), false), failing, logger.Discard())
	assert.True(t, first.nacked)
	assert.True(t, first.requeue)

	second := &ackRecorder{}
	handleDelivery(context.Background(), delivery(t, second, validBody(t), true), failing, logger.Discard())
	assert.True(t, second.nacked)
	assert.False(t, second.requeue)
}
