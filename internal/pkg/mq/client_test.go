package mq

import (
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownQueue(t *testing.T) {
	assert.True(t, knownQueue(IndexQueue))
	assert.True(t, knownQueue(DeleteQueue))
	assert.False(t, knownQueue("file_chunk_queue"))
	assert.False(t, knownQueue(""))
}

// 队列名拼错应该在投递前就被拦下，而不是打到 broker 上才失败
func TestPublishRejectsUnknownQueue(t *testing.T) {
	c := &RabbitMQClient{}

	err := c.Publish("media_index", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "未知队列")
}

func TestConsumeRejectsUnknownQueue(t *testing.T) {
	c := &RabbitMQClient{}

	err := c.Consume("media_delete", func(msg amqp.Delivery) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "未知队列")
}
