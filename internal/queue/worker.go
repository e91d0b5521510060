// Package queue runs graph builds requested over RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/core"
	"github.com/agenthands/textgraph/internal/core/model"
)

var ErrClosed = errors.New("delivery channel closed")

type Builder interface {
	Build(ctx context.Context, req core.BuildRequest) (*model.GraphBuildResponse, error)
}

// Reply is published for every consumed request.
type Reply struct {
	Response *model.GraphBuildResponse `json:"response,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Worker struct {
	Builder    Builder
	Queue      string
	ReplyQueue string
	Prefetch   int
	Logger     *logrus.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
	pub  publisher
}

// Dial connects to the broker and declares the request and reply queues.
func Dial(cfg config.AMQPConfig, builder Builder, logger *logrus.Logger) (*Worker, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, name := range []string{cfg.Queue, cfg.ReplyQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	return &Worker{
		Builder:    builder,
		Queue:      cfg.Queue,
		ReplyQueue: cfg.ReplyQueue,
		Prefetch:   cfg.Prefetch,
		Logger:     logger,
		conn:       conn,
		ch:         ch,
		pub:        ch,
	}, nil
}

// Run consumes requests until ctx is done or the broker closes the channel.
func (w *Worker) Run(ctx context.Context) error {
	if w.Prefetch > 0 {
		if err := w.ch.Qos(w.Prefetch, 0, false); err != nil {
			return fmt.Errorf("failed to set prefetch: %w", err)
		}
	}
	msgs, err := w.ch.Consume(w.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", w.Queue, err)
	}
	w.Logger.WithField("queue", w.Queue).Info("listening for build requests")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ErrClosed
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

func (w *Worker) handle(ctx context.Context, msg amqp.Delivery) {
	log := w.Logger.WithField("correlation_id", msg.CorrelationId)
	reply := w.process(ctx, msg.Body)
	if reply.Error != "" {
		log.WithField("error", reply.Error).Warn("build request failed")
	}

	body, err := json.Marshal(reply)
	if err != nil {
		log.WithError(err).Error("failed to encode reply")
		_ = msg.Nack(false, false)
		return
	}

	key := msg.ReplyTo
	if key == "" {
		key = w.ReplyQueue
	}
	err = w.pub.Publish("", key, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		CorrelationId: msg.CorrelationId,
		Body:          body,
	})
	if err != nil {
		// The build is already persisted; redelivery would only rebuild it.
		log.WithError(err).Error("failed to publish reply")
		_ = msg.Nack(false, false)
		return
	}
	if err := msg.Ack(false); err != nil {
		log.WithError(err).Error("failed to ack request")
	}
}

func (w *Worker) process(ctx context.Context, body []byte) Reply {
	var req core.BuildRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return Reply{Error: fmt.Sprintf("invalid request: %v", err)}
	}
	resp, err := w.Builder.Build(ctx, req)
	if err != nil {
		return Reply{Error: err.Error()}
	}
	return Reply{Response: resp}
}
