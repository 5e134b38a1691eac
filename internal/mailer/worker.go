package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

var ErrUnknownMailType = errors.New("unknown mail type")

// Sender 由 *mail.Client 实现
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeCreateUser:     {file: "create_user.html", subject: "The HUB - Your account"},
	domain.MailTypeResetPassword:  {file: "reset_password.html", subject: "The HUB - Password reset"},
	domain.MailTypeShiftSubmitted: {file: "shift_submitted.html", subject: "The HUB - Shift handover submitted"},
}

type Worker struct {
	sender    Sender
	from      string
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewWorker 在启动时一次性解析所有邮件模板，任一模板缺失都会返回错误
func NewWorker(sender Sender, from, templateDir string, logger *slog.Logger) (*Worker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	templates := make(map[string]*template.Template, len(mailTemplates))
	for mailType, t := range mailTemplates {
		tmpl, err := template.ParseFiles(filepath.Join(templateDir, t.file))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", t.file, err)
		}
		templates[mailType] = tmpl
	}

	return &Worker{
		sender:    sender,
		from:      from,
		templates: templates,
		logger:    logger,
	}, nil
}

// Build 根据队列中的邮件信息构建邮件
func (w *Worker) Build(message domain.MailMessage) (*mail.Msg, error) {
	tmpl, ok := w.templates[message.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMailType, message.Type)
	}

	m := mail.NewMsg()
	if err := m.From(w.from); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := m.To(message.To); err != nil {
		return nil, fmt.Errorf("failed to set recipient: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, message.Data); err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}
	m.Subject(mailTemplates[message.Type].subject)

	return m, nil
}

// Handle 处理一条消息。无法解析的消息直接丢弃，发送失败的消息重新入队
func (w *Worker) Handle(ctx context.Context, delivery amqp.Delivery) {
	w.logger.Info("收到消息", slog.Uint64("deliveryTag", delivery.DeliveryTag))

	message := domain.MailMessage{}
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		w.logger.Error("邮件信息反序列化失败", slog.String("error", err.Error()))
		_ = delivery.Nack(false, false)
		return
	}

	m, err := w.Build(message)
	if err != nil {
		w.logger.Error("无法构建邮件", slog.String("type", message.Type), slog.String("error", err.Error()))
		_ = delivery.Nack(false, false)
		return
	}

	if err := w.sender.DialAndSendWithContext(ctx, m); err != nil {
		w.logger.Error("邮件发送失败", slog.String("type", message.Type), slog.String("error", err.Error()))
		_ = delivery.Nack(false, true) // 将消息重新入队
		return
	}

	w.logger.Info("邮件发送成功", slog.String("type", message.Type), slog.String("to", message.To))
	_ = delivery.Ack(false)
}

// Run 持续消费消息，直到 ctx 被取消或者通道被关闭
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("消息通道已关闭")
				return
			}
			w.Handle(ctx, delivery)
		}
	}
}
