package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var (
	ErrProducerClosed = errors.New("producer is closed")
)

const headerEventType = "event_type"

type OrderProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	MaxAttempts  int
}

// OrderProducer 結帳 commit 之後送出 OrderPlaced, key 為 order id 讓同一張訂單落在同一個 partition
type OrderProducer struct {
	writer *kafka.Writer
	closed atomic.Bool
}

func NewOrderProducer(cfg OrderProducerConfig, logger *zerolog.Logger) (*OrderProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is empty")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  cfg.MaxAttempts,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			if logger != nil {
				logger.Error().Msgf("kafka producer error: "+msg, args...)
			}
		}),
	}

	return &OrderProducer{writer: writer}, nil
}

func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, event *model.OrderPlacedEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	msg, err := convertToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type(), err)
	}
	return nil
}

func (p *OrderProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func convertToMessage(event *model.OrderPlacedEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.Type())},
		},
		Time: event.CreatedAt,
	}, nil
}

// NoopOrderProducer 沒設定 kafka 時使用, 只記 log
type NoopOrderProducer struct {
	logger *zerolog.Logger
}

func NewNoopOrderProducer(logger *zerolog.Logger) *NoopOrderProducer {
	return &NoopOrderProducer{logger: logger}
}

func (p *NoopOrderProducer) PublishOrderPlaced(ctx context.Context, event *model.OrderPlacedEvent) error {
	if p.logger != nil {
		p.logger.Debug().
			Uint("order_id", event.OrderID).
			Str("total", event.Total.String()).
			Msg("order placed (kafka disabled)")
	}
	return nil
}

func (p *NoopOrderProducer) Close() error {
	return nil
}
