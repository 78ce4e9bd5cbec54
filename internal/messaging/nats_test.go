package messaging

import (
	"testing"
	"time"

	"github.com/nats-io/stan.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSubscriptionOptions(t *testing.T) {
	opts := stan.DefaultSubscriptionOptions
	for _, opt := range queueSubscriptionOptions("order.created", "consumers") {
		require.NoError(t, opt(&opts))
	}

	// Manual acks are what let a handler decline a message for redelivery;
	// without this flag stan auto-acks as soon as the callback returns.
	assert.True(t, opts.ManualAcks)
	assert.Equal(t, 30*time.Second, opts.AckWait)
	assert.Equal(t, 1, opts.MaxInflight)
	assert.Equal(t, "order.created-consumers-durable", opts.DurableName)
}
