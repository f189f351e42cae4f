package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var (
	_ port.EventConsumer  = (*Consumer)(nil)
	_ port.EventPublisher = (*Publisher)(nil)
)

func connect(cfg config.NATSConfig, name string, logger *slog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}
	return conn, js, nil
}

// ensureStream makes sure the cleanup stream exists with the configured subject
func ensureStream(ctx context.Context, js jetstream.JetStream, cfg config.NATSConfig) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.Subject},
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

// Consumer is a struct to interact with nats
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	iter   jetstream.MessagesContext
	wg     sync.WaitGroup
	once   sync.Once
	done   chan struct{}
}

// NewNATSConsumer creates a new consumer
func NewNATSConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Subscribe subscribes to stream and handles messages
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	if err := ensureStream(ctx, n.js, n.config); err != nil {
		return err
	}

	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: n.config.Subject,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		BackOff:       []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, time.Second, 5 * time.Second},
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return err
	}

	iter, err := cons.Messages()
	if err != nil {
		return err
	}
	n.iter = iter

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.logger.Info("NATS subscription started", "stream", n.config.StreamName, "subject", n.config.Subject)
		for {
			msg, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil {
					n.logger.Info("NATS subscription stopped")
					return
				}
				n.logger.Warn("NATS subscription ended", "error", err)
				return
			}

			if handleErr := handler.HandleMessage(ctx, msg.Data()); handleErr != nil {
				if errNak := msg.Nak(); errNak != nil {
					n.logger.Error("failed to nak message", "error", errNak)
				}
				n.logger.Warn("failed to handle message", "error", handleErr)
				continue
			}
			if ackErr := msg.Ack(); ackErr != nil {
				n.logger.Error("failed to ack message", "error", ackErr)
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			iter.Stop()
		case <-n.done:
		}
	}()
	return nil
}

// Close graceful shutdown, safe to call twice
func (n *Consumer) Close() error {
	n.once.Do(func() {
		close(n.done)
		if n.iter != nil {
			n.iter.Stop()
		}
		n.wg.Wait()
		if n.conn != nil {
			n.conn.Close()
		}
	})
	return nil
}

// Publisher publishes cleanup jobs on JetStream
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects and makes sure the stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return &Publisher{logger: logger, conn: conn, js: js, config: cfg}, nil
}

// PublishCleanupJob publishes job, the message id deduplicates retried publishes
func (p *Publisher) PublishCleanupJob(ctx context.Context, job domain.CleanupJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("could not marshal cleanup job: %w", err)
	}

	msgID := fmt.Sprintf("%s-%d", job.RecordID, job.CreatedAt.UnixNano())
	ack, err := p.js.Publish(ctx, p.config.Subject, data, jetstream.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish cleanup job: %w", err)
	}

	p.logger.Info("cleanup job published", "record_id", job.RecordID, "keys", len(job.Keys), "seq", ack.Sequence)
	return nil
}

// Close closes the connection
func (p *Publisher) Close() error {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
			return err
		}
	}
	return nil
}
