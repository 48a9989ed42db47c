// Package amqp は監査記録を AMQP (RabbitMQ) へ配信します。
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/audit"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessageType は配信するメッセージの種別です。
const MessageType = "staffingplan.audit.v1"

const publishTimeout = 5 * time.Second

// ErrMissingExchange は exchange 名が空のときに返します。
var ErrMissingExchange = errors.New("amqp: exchange is required")

// channel は amqp091.Channel のうち利用するメソッドです。
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Options は AuditPublisher の設定です。Queue が空の場合はキューを宣言しません。
type Options struct {
	URL      string
	Exchange string
	Queue    string
	Logger   *zap.Logger
}

// AuditPublisher は audit.Sink として監査記録を exchange に発行します。
type AuditPublisher struct {
	conn       *amqp091.Connection
	channel    channel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

var _ audit.Sink = (*AuditPublisher)(nil)

// Dial は接続とチャネルを開き、exchange とキューを宣言します。
func Dial(opts Options) (*AuditPublisher, error) {
	if strings.TrimSpace(opts.Exchange) == "" {
		return nil, ErrMissingExchange
	}

	conn, err := amqp091.Dial(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newAuditPublisher(ch, opts)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAuditPublisher(ch channel, opts Options) (*AuditPublisher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &AuditPublisher{
		channel:    ch,
		exchange:   opts.Exchange,
		routingKey: opts.Queue,
		logger:     logger,
	}
	if err := p.setup(opts.Queue); err != nil {
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return p, nil
}

func (p *AuditPublisher) setup(queue string) error {
	if err := p.channel.ExchangeDeclare(p.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if queue == "" {
		return nil
	}
	if _, err := p.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := p.channel.QueueBind(queue, queue, p.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Record は監査記録を JSON で発行します。
func (p *AuditPublisher) Record(ctx context.Context, entry audit.Entry) error {
	msg, err := buildPublishing(entry)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish audit entry: %w", err)
	}

	p.logger.Debug("published audit entry",
		zap.String("id", msg.MessageId),
		zap.String("exchange", p.exchange),
		zap.String("routing_key", p.routingKey),
	)
	return nil
}

// Close はチャネルと接続を閉じます。
func (p *AuditPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func buildPublishing(entry audit.Entry) (amqp091.Publishing, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal audit entry: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    entry.ID.String(),
		Type:         MessageType,
		Timestamp:    entry.CreatedAt,
		Headers: amqp091.Table{
			"site":   entry.Site,
			"action": entry.Intent,
			"status": string(entry.Status),
		},
		Body: body,
	}, nil
}
