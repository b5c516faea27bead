package mq

import (
	"fmt"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// 媒体流水线只有两条队列：上传后异步建索引，删除后异步清理
const (
	IndexQueue  = "media_index_queue"
	DeleteQueue = "media_delete_queue"
)

func knownQueue(name string) bool {
	return name == IndexQueue || name == DeleteQueue
}

// RabbitMQClient 封装连接与通道，建连时把两条媒体队列声明为持久化队列
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQClient(amqpURL string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("连接 RabbitMQ 失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 RabbitMQ 通道失败: %w", err)
	}

	c := &RabbitMQClient{conn: conn, channel: ch}
	for _, name := range []string{IndexQueue, DeleteQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			c.Close()
			return nil, fmt.Errorf("声明队列 %s 失败: %w", name, err)
		}
	}
	return c, nil
}

// Publish 把任务投到指定媒体队列，消息持久化。队列名必须是本包声明的两条之一
func (c *RabbitMQClient) Publish(queueName string, body []byte) error {
	if !knownQueue(queueName) {
		return fmt.Errorf("未知队列: %s", queueName)
	}
	return c.channel.Publish(
		"",        // 默认交换机
		queueName, // 路由键即队列名
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

// Consume 订阅指定媒体队列，手动 ack 交由 handler 决定
func (c *RabbitMQClient) Consume(queueName string, handler func(msg amqp.Delivery)) error {
	if !knownQueue(queueName) {
		return fmt.Errorf("未知队列: %s", queueName)
	}
	msgs, err := c.channel.Consume(
		queueName,
		"",
		false, // 手动 ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("注册消费者失败: %w", err)
	}

	go func() {
		for msg := range msgs {
			handler(msg)
		}
	}()

	logger.Info("队列消费者已启动", zap.String("queue", queueName))
	return nil
}

// Close 先关通道再关连接
func (c *RabbitMQClient) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
