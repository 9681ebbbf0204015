package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
	"github.com/nazmulrahman/young-star-app/pkg/retry"
)

type Event struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Severity string    `json:"severity"`
	SentAt   time.Time `json:"sent_at"`
}

// KafkaSink publishes notification events to a topic for the notification
// worker to fan out. Delivery is best effort: failures are logged, never
// returned to the caller, and a tripped breaker drops events until the
// broker recovers.
type KafkaSink struct {
	writer  *kafka.Writer
	breaker *retry.CircuitBreaker
	log     *logging.Logger
}

func NewKafkaSink(brokers []string, topic string, log *logging.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &KafkaSink{
		writer:  writer,
		breaker: retry.NewCircuitBreaker(5, 30*time.Second),
		log:     log,
	}
}

func (s *KafkaSink) Notify(ctx context.Context, title, body string, severity Severity) {
	event := Event{
		Title:    title,
		Body:     body,
		Severity: string(severity),
		SentAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error(ctx, "failed to marshal notification event", zap.Error(err))
		return
	}

	err = s.breaker.Execute(func() error {
		_, sendErr := retry.WithBackoff(ctx, 3, 100*time.Millisecond, func() (struct{}, error) {
			if err := s.writer.WriteMessages(ctx, kafka.Message{Key: []byte(title), Value: data}); err != nil {
				return struct{}{}, fmt.Errorf("%w: kafka write: %v", errdefs.ErrTransport, err)
			}
			return struct{}{}, nil
		})
		return sendErr
	})
	if err != nil {
		s.log.Warn(ctx, "notification dropped",
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
