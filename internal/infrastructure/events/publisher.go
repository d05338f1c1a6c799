package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
)

const (
	TypeReviewSubmitted  = "review.submitted"
	TypeSectionCompleted = "section.completed"
	TypeCourseCompleted  = "course.completed"
)

type Event struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userId"`
	CourseID string    `json:"courseId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher fans domain events out to downstream display surfaces.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
	Close() error
}

type Config struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	BatchSize    int
	FlushEvery   time.Duration
	WriteTimeout time.Duration
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w   messageWriter
	log *logger.Logger
}

// NewPublisher returns a Kafka publisher, or a log-only publisher when
// publishing is disabled.
func NewPublisher(cfg Config, log *logger.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return LogPublisher{log: log}, nil
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: no topic configured")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
		Async:                  true,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.FlushEvery,
		WriteTimeout:           cfg.WriteTimeout,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn("kafka delivery failed", "count", len(msgs), "error", err)
			}
		},
	}
	return newKafkaPublisher(w, log), nil
}

func newKafkaPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, log: log}
}

// Publish is fire-and-forget: failures are logged, never returned.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("event encode failed", "type", ev.Type, "error", err)
		return
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		p.log.Warn("event publish failed", "type", ev.Type, "error", err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

type LogPublisher struct {
	log *logger.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev Event) {
	p.log.Debug("event", "type", ev.Type, "user_id", ev.UserID, "course_id", ev.CourseID)
}

func (LogPublisher) Close() error { return nil }
