package rabbitmq

import (
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

// A client without an open channel must refuse to publish or consume instead
// of panicking; main relies on this when the broker connection drops.
func TestClientWithoutChannelRefusesOperations(t *testing.T) {
	client := &Client{}

	err := client.Publish("post.created", []byte(`{"postID":"post-1"}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "channel is not available")

	err = client.ConsumePostEvents(func(msg amqp.Delivery) error { return nil })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "channel is not available")
}

func TestCloseWithoutConnectionIsANoOp(t *testing.T) {
	client := &Client{}
	assert.NoError(t, client.Close())
}
