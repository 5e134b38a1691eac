package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel 是 *amqp.Channel 中发布消息所需的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch      Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{ch: ch, queue: queue, timeout: timeout}
}

// Publish 把邮件序列化后投递到邮件队列，由 mail worker 异步发送
func (p *Publisher) Publish(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.ch.PublishWithContext(
		ctx,
		"",      // 交换机
		p.queue, // 队列名称
		true,    // 如果没有队列接收消息，则返回错误
		false,   // 不需要立即发送
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("failed to publish mail message: %w", err)
	}

	return nil
}
